package device

import (
	"github.com/google/uuid"

	"github.com/sifis-home/wp6-mobile-application-api/internal/security"
)

// Info is the immutable identity record of a Smart Device.
//
// It is generated once at provisioning and loaded at every service start.
// Some or all of these values are delivered with the device in a QR code
// for the mobile application to scan.
//
// Changing the authorization key after provisioning invalidates every
// credential already handed out, including printed QR codes.
type Info struct {
	// ProductName is the marketing name of the device.
	ProductName string `json:"product_name"`

	// AuthorizationKey is the 256-bit key the mobile application must
	// present to access the configuration endpoints.
	AuthorizationKey security.SecurityKey `json:"authorization_key"`

	// PrivateKeyFile is the path to the DHT private key file. The DHT
	// daemon generates the file on its first run.
	PrivateKeyFile string `json:"private_key_file"`

	// UUID is the 128-bit time-ordered device identifier (UUID version 7).
	UUID uuid.UUID `json:"uuid"`
}

// Config is the owner-set configuration of a Smart Device.
//
// It does not exist until the owner configures the device, and it is
// deleted by a factory reset.
type Config struct {
	// Name is the user-defined name for the device.
	Name string `json:"name"`

	// DHTSharedKey is the shared key for DHT communication.
	DHTSharedKey security.SecurityKey `json:"dht_shared_key"`
}
