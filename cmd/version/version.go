package version

import (
	"fmt"
)

var (
	majorVer uint64 = 0
	minorVer uint64 = 1
	patchVer uint64 = 0

	// it is changed using ldflags.
	//  ex) -ldflags "... -X 'github.com/lockvote/lockvote-go/cmd/version.GitCommit=$(LVER)'"
	GitCommit string
)

func String() string {
	if GitCommit != "" {
		return fmt.Sprintf("%v.%v.%v-%s", majorVer, minorVer, patchVer, GitCommit)
	}
	return fmt.Sprintf("%v.%v.%v", majorVer, minorVer, patchVer)
}

func Major() uint64 {
	return majorVer
}

func Minor() uint64 {
	return minorVer
}

func Patch() uint64 {
	return patchVer
}
