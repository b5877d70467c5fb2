package engine

import "crypto/cipher"

type ecb struct {
	b       cipher.Block
	encrypt bool
}

// NewECBEncrypter returns a BlockMode which encrypts each block independently with b.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, encrypt: true}
}

// NewECBDecrypter returns a BlockMode which decrypts each block independently with b.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, encrypt: false}
}

func (x *ecb) BlockSize() int {
	return x.b.BlockSize()
}

func (x *ecb) CryptBlocks(dst, src []byte) {
	bs := x.b.BlockSize()

	if len(src)%bs != 0 {
		panic("engine: input not full blocks")
	}

	if len(dst) < len(src) {
		panic("engine: output smaller than input")
	}

	for i := 0; i < len(src); i += bs {
		if x.encrypt {
			x.b.Encrypt(dst[i:i+bs], src[i:i+bs])
		} else {
			x.b.Decrypt(dst[i:i+bs], src[i:i+bs])
		}
	}
}

var _ cipher.BlockMode = &ecb{}
