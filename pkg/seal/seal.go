// Package seal encrypts slot values at rest with a passphrase
// Package seal 使用口令对槽位数据进行静态加密
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100_000
)

// Envelope is the serialized form of a sealed value
// Envelope 加密后的序列化结构
type Envelope struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

func deriveKey(pass string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pass), salt, iterations, keySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with a fresh salt and nonce and returns the JSON envelope
// Seal 使用新的盐和随机数加密明文，返回 JSON 信封
func Seal(plaintext []byte, pass string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generate salt")
	}

	key := deriveKey(pass, salt)
	defer clearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "generate nonce")
	}

	return sonic.Marshal(Envelope{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
	})
}

// Open decrypts an envelope produced by Seal
// Open 解密 Seal 生成的信封
func Open(sealed []byte, pass string) ([]byte, error) {
	var env Envelope
	if err := sonic.Unmarshal(sealed, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}

	key := deriveKey(pass, env.Salt)
	defer clearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt")
	}
	return plaintext, nil
}

func clearBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
