package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lockvote/lockvote-go/node"
	"github.com/lockvote/lockvote-go/types"
	"github.com/lockvote/lockvote-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const (
	GetAccountHandlerPattern   = "/account/{addr}"
	GetHolderHandlerPattern    = "/holder/{addr}"
	GetSupplyHandlerPattern    = "/supply"
	GetGovParamsHandlerPattern = "/gov_params"
	GetProposalHandlerPattern  = "/proposal/{subject}"
	GetProposalsHandlerPattern = "/proposals"
	GetResultHandlerPattern    = "/result/{subject}"
	GetSupportedHandlerPattern = "/supported/{subject}"
)

// Server exposes the read-only query surface over HTTP. Commands are
// not served here; state only changes through the application's own
// entry points.
type Server struct {
	app    *node.GovApp
	router *mux.Router
	srv    *http.Server

	logger tmlog.Logger
}

func NewServer(app *node.GovApp, listenAddr string, logger tmlog.Logger) *Server {
	s := &Server{
		app:    app,
		router: mux.NewRouter(),
		logger: logger.With("module", "lockvote_RPCServer"),
	}

	s.router.HandleFunc(GetAccountHandlerPattern, s.handleQueryPath("account", "addr")).Methods("GET")
	s.router.HandleFunc(GetHolderHandlerPattern, s.handleQueryPath("holder", "addr")).Methods("GET")
	s.router.HandleFunc(GetSupplyHandlerPattern, s.handleQueryPath("supply", "")).Methods("GET")
	s.router.HandleFunc(GetGovParamsHandlerPattern, s.handleQueryPath("gov_params", "")).Methods("GET")
	s.router.HandleFunc(GetProposalHandlerPattern, s.handleQueryPath("proposal", "subject")).Methods("GET")
	s.router.HandleFunc(GetProposalsHandlerPattern, s.handleQueryPath("proposals", "")).Methods("GET")
	s.router.HandleFunc(GetResultHandlerPattern, s.GetResultHandler).Methods("GET")
	s.router.HandleFunc(GetSupportedHandlerPattern, s.GetSupportedHandler).Methods("GET")

	s.srv = &http.Server{
		Addr:    listenAddr,
		Handler: s.router,
	}
	return s
}

func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) Start() {
	go func() {
		s.logger.Info("RPC server started", "listen", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("RPC server stopped", "error", err.Error())
		}
	}()
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// handleQueryPath serves the ledger-backed query paths. `addrVar` names
// the route variable holding a hex address, or is empty for paths that
// take no argument.
func (s *Server) handleQueryPath(path, addrVar string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data []byte
		if addrVar != "" {
			addr, xerr := addrFromVar(r, addrVar)
			if xerr != nil {
				writeError(w, http.StatusBadRequest, xerr)
				return
			}
			data = addr
		}

		resp, xerr := s.app.Query(abcitypes.RequestQuery{Path: path, Data: data})
		if xerr != nil {
			writeError(w, statusOf(xerr), xerr)
			return
		}
		writeJSON(w, json.RawMessage(resp))
	}
}

func (s *Server) GetResultHandler(w http.ResponseWriter, r *http.Request) {
	subject, xerr := addrFromVar(r, "subject")
	if xerr != nil {
		writeError(w, http.StatusBadRequest, xerr)
		return
	}

	support, reject, xerr := s.app.ResultOf(subject)
	if xerr != nil {
		writeError(w, statusOf(xerr), xerr)
		return
	}
	writeJSON(w, &struct {
		Subject       types.Address `json:"subject"`
		SupportWeight string        `json:"supportWeight"`
		RejectWeight  string        `json:"rejectWeight"`
	}{
		Subject:       subject,
		SupportWeight: support.Dec(),
		RejectWeight:  reject.Dec(),
	})
}

func (s *Server) GetSupportedHandler(w http.ResponseWriter, r *http.Request) {
	subject, xerr := addrFromVar(r, "subject")
	if xerr != nil {
		writeError(w, http.StatusBadRequest, xerr)
		return
	}

	strict := false
	if v := r.URL.Query().Get("strict"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, xerrors.ErrInvalidQueryParams.Wrap(err))
			return
		}
		strict = b
	}

	supported, xerr := s.app.IsSupported(subject, strict)
	if xerr != nil {
		writeError(w, statusOf(xerr), xerr)
		return
	}
	writeJSON(w, &struct {
		Subject   types.Address `json:"subject"`
		Strict    bool          `json:"strict"`
		Supported bool          `json:"supported"`
	}{
		Subject:   subject,
		Strict:    strict,
		Supported: supported,
	})
}

func addrFromVar(r *http.Request, name string) (types.Address, xerrors.XError) {
	addr, err := types.HexToAddress(mux.Vars(r)[name])
	if err != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
	}
	return addr, nil
}

func statusOf(xerr xerrors.XError) int {
	switch xerr.Code() {
	case xerrors.ErrCodeNotFoundAccount, xerrors.ErrCodeNotFoundProposal, xerrors.ErrCodeNotFoundResult:
		return http.StatusNotFound
	case xerrors.ErrCodeInvalidQueryCmd, xerrors.ErrCodeInvalidQueryParams:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, xerr xerrors.XError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&struct {
		Code  uint32 `json:"code"`
		Error string `json:"error"`
	}{
		Code:  xerr.Code(),
		Error: xerr.Error(),
	})
}
