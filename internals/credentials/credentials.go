// Package credentials persists the account the game is launched with
package credentials

import (
	"crypto/md5"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/zalando/go-keyring"
)

var (
	authService = "mcinstall"
	authUser    = "launch_account"
	authFile    = "account.json"
)

// Account is the identity used to launch the game. It implements minecraft.LaunchAuthData
type Account struct {
	PlayerName  string `json:"playerName"`
	UUID        string `json:"uuid"`
	AccessToken string `json:"accessToken"`
	UserType    string `json:"userType"`
	XUID        string `json:"xuid,omitempty"`
}

var _ minecraft.LaunchAuthData = (*Account)(nil)

// GetAccessToken returns the access token
func (a *Account) GetAccessToken() string { return a.AccessToken }

// GetUUID returns the player uuid
func (a *Account) GetUUID() string { return a.UUID }

// GetPlayerName returns the player name
func (a *Account) GetPlayerName() string { return a.PlayerName }

// GetUserType returns the user type
func (a *Account) GetUserType() string { return a.UserType }

// GetXUID returns the xbox user id
func (a *Account) GetXUID() string { return a.XUID }

// Offline returns an account that can only be used for offline play
func Offline(playerName string) *Account {
	return &Account{
		PlayerName:  playerName,
		UUID:        OfflineUUID(playerName),
		AccessToken: "0",
		UserType:    minecraft.UserTypeLegacy,
	}
}

// OfflineUUID returns the uuid servers in offline mode assign to a player name
// (a version 3 uuid of "OfflinePlayer:<name>" without namespace)
func OfflineUUID(playerName string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + playerName))
	id, _ := uuid.FromBytes(sum[:])
	id[6] = (id[6] & 0x0f) | 0x30
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}

// Store stores the account in the system keyring or in a file if no keyring is available
type Store struct {
	globalDir     string
	NoKeyRingMode bool
	Account       *Account
}

// New creates a new Store and reads existing credentials
func New(globalDir string) (*Store, error) {
	store := &Store{globalDir: globalDir}
	if err := store.Find(); err != nil {
		return nil, err
	}
	return store, nil
}

// Find tries to find existing credentials
func (s *Store) Find() error {
	raw, err := keyring.Get(authService, authUser)
	switch err {
	case nil:
		s.Account = &Account{}
		return json.Unmarshal([]byte(raw), s.Account)
	case keyring.ErrNotFound:
		// no credentials (yet) is fine
		return nil
	default:
		s.NoKeyRingMode = true
		return s.findFromFile()
	}
}

// SetAccount sets `Account` and persists it
func (s *Store) SetAccount(account *Account) error {
	s.Account = account

	blob, err := json.Marshal(account)
	if err != nil {
		return err
	}
	if s.NoKeyRingMode {
		return s.writeCredentialFile(blob)
	}
	return keyring.Set(authService, authUser, string(blob))
}

// Clear removes the persisted account
func (s *Store) Clear() error {
	s.Account = nil
	if s.NoKeyRingMode {
		err := os.Remove(filepath.Join(s.globalDir, authFile))
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	err := keyring.Delete(authService, authUser)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

func (s *Store) findFromFile() error {
	raw, err := os.ReadFile(filepath.Join(s.globalDir, authFile))
	switch {
	case err == nil:
		s.Account = &Account{}
		return json.Unmarshal(raw, s.Account)
	case os.IsNotExist(err):
		// no file is fine
		return nil
	default:
		return err
	}
}

func (s *Store) writeCredentialFile(content []byte) error {
	if err := os.MkdirAll(s.globalDir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.globalDir, authFile), content, 0600)
}
