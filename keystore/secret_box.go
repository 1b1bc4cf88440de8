package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

const (
	Argon2IDAESGCM256Type = "argon2id-aes-gcm-256"
)

var ErrInvalidPassword = errors.New("invalid password")

type SecretBox interface {
	Decrypt(password string) ([]byte, error)
}

// Argon2Params tunes the key stretching of new secret boxes.
type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

var DefaultArgon2Params = Argon2Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
}

type Argon2AESGCM256SecretBox struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
	Salt    []byte `json:"salt"`
	KeyLen  uint32 `json:"key_len"`
	Nonce   []byte `json:"nonce"`
	Tag     []byte `json:"tag"`
	CT      []byte `json:"ct"`
	Type    string `json:"type"`
}

func NewArgon2AESGCM256SecretBox(pt []byte, password string, params Argon2Params) (*Argon2AESGCM256SecretBox, error) {
	c := &Argon2AESGCM256SecretBox{
		Time:    params.Time,
		Memory:  params.Memory,
		Threads: params.Threads,
		Salt:    RandBytes(32),
		KeyLen:  32,
		Nonce:   RandBytes(12),
		Tag:     RandBytes(32),
		Type:    Argon2IDAESGCM256Type,
	}

	gcm, err := c.cipher(password)
	if err != nil {
		return nil, err
	}
	c.CT = gcm.Seal(nil, c.Nonce, pt, c.Tag)
	return c, nil
}

func (c *Argon2AESGCM256SecretBox) Decrypt(password string) ([]byte, error) {
	gcm, err := c.cipher(password)
	if err != nil {
		return nil, err
	}
	pt, err := gcm.Open(nil, c.Nonce, c.CT, c.Tag)
	if err != nil {
		return nil, errors.WithStack(ErrInvalidPassword)
	}
	return pt, nil
}

func (c *Argon2AESGCM256SecretBox) cipher(password string) (cipher.AEAD, error) {
	key := argon2.IDKey(
		[]byte(password),
		c.Salt,
		c.Time,
		c.Memory,
		c.Threads,
		c.KeyLen,
	)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize block cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GCM cipher")
	}
	return gcm, nil
}

func UnmarshalSecretBox(in []byte) (SecretBox, error) {
	tmp := struct {
		Type string `json:"type"`
	}{}

	if err := json.Unmarshal(in, &tmp); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling secret box type")
	}

	var dec SecretBox
	switch tmp.Type {
	case Argon2IDAESGCM256Type:
		dec = &Argon2AESGCM256SecretBox{}
	default:
		return nil, errors.Errorf("unknown secret box type %q", tmp.Type)
	}

	if err := json.Unmarshal(in, dec); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling secret box")
	}

	return dec, nil
}
