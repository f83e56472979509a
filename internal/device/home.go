package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sifis-home/wp6-mobile-application-api/internal/security"
)

// HomePathEnv is the environment variable that overrides the SIFIS-Home
// directory location.
const HomePathEnv = "SIFIS_HOME_PATH"

// defaultHomePath is where a Smart Device keeps its files unless told
// otherwise.
const defaultHomePath = "/opt/sifis-home/"

// File names inside the home directory.
const (
	infoFileName       = "device.json"
	configFileName     = "config.json"
	privateKeyFileName = "private.pem"
)

// filePermissions is the mode for the JSON records (owner read/write only;
// device.json holds the authorization key).
const filePermissions = 0600

// ErrInfoNotFound is returned by LoadInfo when device.json does not exist.
// This is a fatal startup condition for the server; the create-device-info
// tool writes the file.
var ErrInfoNotFound = errors.New("device: device information file not found")

// Home locates and persists the Smart Device records.
//
// It also carries the shared random generator used when minting a new
// identity. Home is safe for concurrent use: the path is immutable and the
// generator is stateless.
type Home struct {
	path string
	srng *security.SRNG
}

// NewHome creates a Home rooted at the default path, or at $SIFIS_HOME_PATH
// when the variable is set.
func NewHome() *Home {
	path := os.Getenv(HomePathEnv)
	if path == "" {
		path = defaultHomePath
	}
	return NewHomeWithPath(path)
}

// NewHomeWithPath creates a Home rooted at a custom directory.
func NewHomeWithPath(path string) *Home {
	return &Home{
		path: path,
		srng: security.NewSRNG(),
	}
}

// Path returns the home directory.
func (h *Home) Path() string {
	return h.path
}

// InfoFile returns the path of the device information file device.json.
func (h *Home) InfoFile() string {
	return filepath.Join(h.path, infoFileName)
}

// ConfigFile returns the path of the device configuration file config.json.
func (h *Home) ConfigFile() string {
	return filepath.Join(h.path, configFileName)
}

// NewInfo mints a fresh device identity.
//
// The product name is the caller's choice; the authorization key and the
// version 7 UUID are generated from the secure random source, and the
// private key path defaults to private.pem inside the home directory.
func (h *Home) NewInfo(productName string) (*Info, error) {
	key, err := h.srng.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating authorization key: %w", err)
	}
	id, err := h.srng.GenerateUUID()
	if err != nil {
		return nil, fmt.Errorf("generating device UUID: %w", err)
	}
	return &Info{
		ProductName:      productName,
		AuthorizationKey: key,
		PrivateKeyFile:   filepath.Join(h.path, privateKeyFileName),
		UUID:             id,
	}, nil
}

// LoadInfo reads and parses device.json.
// Returns ErrInfoNotFound when the file does not exist.
func (h *Home) LoadInfo() (*Info, error) {
	data, err := os.ReadFile(h.InfoFile())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInfoNotFound, h.InfoFile())
		}
		return nil, fmt.Errorf("reading device information: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing device information: %w", err)
	}
	return &info, nil
}

// SaveInfo writes device.json as indented JSON.
func (h *Home) SaveInfo(info *Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding device information: %w", err)
	}
	if err := os.WriteFile(h.InfoFile(), data, filePermissions); err != nil {
		return fmt.Errorf("writing device information: %w", err)
	}
	return nil
}

// LoadConfig reads and parses config.json.
func (h *Home) LoadConfig() (*Config, error) {
	data, err := os.ReadFile(h.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("reading device configuration: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing device configuration: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes config.json as indented JSON.
func (h *Home) SaveConfig(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding device configuration: %w", err)
	}
	if err := os.WriteFile(h.ConfigFile(), data, filePermissions); err != nil {
		return fmt.Errorf("writing device configuration: %w", err)
	}
	return nil
}

// RemoveConfig deletes config.json. A missing file is not an error; the
// outcome is the same.
func (h *Home) RemoveConfig() error {
	if err := os.Remove(h.ConfigFile()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing device configuration: %w", err)
	}
	return nil
}
