package bytes

import (
	tmrand "github.com/tendermint/tendermint/libs/rand"
)

func RandBytes(n int) HexBytes {
	return tmrand.Bytes(n)
}

func RandHexString(n int) string {
	return HexBytes(tmrand.Bytes(n)).String()
}

func ZeroBytes(n int) HexBytes {
	return make([]byte, n)
}
