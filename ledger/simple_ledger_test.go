package ledger

import (
	"encoding/json"
	abytes "github.com/lockvote/lockvote-go/types/bytes"
	"github.com/lockvote/lockvote-go/types/xerrors"
	"github.com/stretchr/testify/require"
	tmrand "github.com/tendermint/tendermint/libs/rand"
	"os"
	"path/filepath"
	"testing"
)

type testItem struct {
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

func newTestItem(name string, v int32) *testItem {
	return &testItem{Name: name, Value: v}
}

func (i *testItem) Key() LedgerKey {
	return ToLedgerKey([]byte(i.Name))
}

func (i *testItem) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(i); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (i *testItem) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, i); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ILedgerItem = (*testItem)(nil)

var (
	testLedger *SimpleLedger[*testItem]
	testItem0  *testItem
	testItem1  *testItem
)

func resetLedger(t *testing.T) {
	dbDir := filepath.Join(os.TempDir(), "lockvote-ledger-test")

	if testLedger != nil {
		require.NoError(t, testLedger.Close())
		os.RemoveAll(dbDir)
	}

	var xerr xerrors.XError
	testLedger, xerr = NewSimpleLedger[*testItem]("testLedger", dbDir, 256, func() *testItem { return &testItem{} })
	require.NoError(t, xerr)

	testItem0 = newTestItem(abytes.RandHexString(16), tmrand.Int32())
	testItem1 = newTestItem(abytes.RandHexString(16), tmrand.Int32())
}

func TestSimpleLedger_SetGet(t *testing.T) {
	resetLedger(t)

	require.NoError(t, testLedger.Set(testItem0))

	// cached, not yet committed
	item, xerr := testLedger.Get(testItem0.Key())
	require.NoError(t, xerr)
	require.Equal(t, testItem0, item)

	// Read() bypasses the cache; nothing is on disk yet
	item, xerr = testLedger.Read(testItem0.Key())
	require.Error(t, xerr)
	require.Nil(t, item)

	_, _, xerr = testLedger.Commit()
	require.NoError(t, xerr)

	item, xerr = testLedger.Read(testItem0.Key())
	require.NoError(t, xerr)
	require.Equal(t, testItem0, item)
}

func TestSimpleLedger_Del(t *testing.T) {
	resetLedger(t)

	require.NoError(t, testLedger.Set(testItem0))
	require.NoError(t, testLedger.Set(testItem1))
	_, _, xerr := testLedger.Commit()
	require.NoError(t, xerr)

	item, xerr := testLedger.Del(testItem0.Key())
	require.NoError(t, xerr)
	require.Equal(t, testItem0, item)

	_, _, xerr = testLedger.Commit()
	require.NoError(t, xerr)

	_, xerr = testLedger.Read(testItem0.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	item, xerr = testLedger.Read(testItem1.Key())
	require.NoError(t, xerr)
	require.Equal(t, testItem1, item)
}

func TestSimpleLedger_Iterate(t *testing.T) {
	resetLedger(t)

	items := make(map[LedgerKey]*testItem)
	for i := 0; i < 10; i++ {
		it := newTestItem(abytes.RandHexString(16), tmrand.Int32())
		items[it.Key()] = it
		require.NoError(t, testLedger.Set(it))
	}
	_, _, xerr := testLedger.Commit()
	require.NoError(t, xerr)

	cnt := 0
	xerr = testLedger.IterateAllItems(func(it *testItem) xerrors.XError {
		require.Equal(t, items[it.Key()], it)
		cnt++
		return nil
	})
	require.NoError(t, xerr)
	require.Equal(t, len(items), cnt)
}
