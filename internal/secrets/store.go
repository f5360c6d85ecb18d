package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// lightweight per-user session store (file, 0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but avoids plain-text tokens on disk.

const fileName = "session.json"

// ErrNoSession reports that no session has been stored.
var ErrNoSession = errors.New("no stored session")

// Session is the sign-in state returned by the host after a login.
type Session struct {
	Account string
	Token   string
}

type sessionFile struct {
	Values map[string]string `json:"values"` // field -> base64(ciphertext)
}

// StoreSession encrypts and writes the session to disk, replacing any
// previous one.
func StoreSession(s Session) error {
	if s.Token == "" {
		return fmt.Errorf("token required")
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	sf := sessionFile{Values: map[string]string{}}
	for field, plain := range map[string]string{
		"account": s.Account,
		"token":   s.Token,
	} {
		ct, err := encrypt([]byte(plain))
		if err != nil {
			return err
		}
		sf.Values[field] = base64.StdEncoding.EncodeToString(ct)
	}
	return save(path, sf)
}

// FetchSession loads and decrypts the stored session. Returns ErrNoSession
// when nothing has been stored.
func FetchSession() (Session, error) {
	path, err := filePath()
	if err != nil {
		return Session{}, err
	}
	sf, err := load(path)
	if err != nil {
		return Session{}, err
	}
	enc, ok := sf.Values["token"]
	if !ok {
		return Session{}, ErrNoSession
	}
	token, err := decodeField(enc)
	if err != nil {
		return Session{}, err
	}
	var account string
	if enc, ok := sf.Values["account"]; ok {
		if account, err = decodeField(enc); err != nil {
			return Session{}, err
		}
	}
	return Session{Account: account, Token: token}, nil
}

// ClearSession removes the stored session. Clearing an absent session is
// not an error.
func ClearSession() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func decodeField(enc string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func filePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "paneldeck")
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func load(path string) (sessionFile, error) {
	var sf sessionFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sessionFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, err
	}
	return sf, nil
}

func save(path string, sf sessionFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func masterKey() ([]byte, error) {
	user := os.Getenv("USER")
	base := fmt.Sprintf("paneldeck-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:], nil
}

func encrypt(plain []byte) ([]byte, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
