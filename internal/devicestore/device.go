package devicestore

import (
	"fmt"
	"strings"
	"time"

	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	"github.com/provide-io/candy/go/candy/pkg/candy/detect"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
)

// Device is one stored appliance.
type Device struct {
	Name          string    `yaml:"name"`
	IP            string    `yaml:"ip"`
	Encryption    string    `yaml:"encryption"`
	UseEncryption bool      `yaml:"use_encryption"`
	Key           string    `yaml:"key,omitempty"`
	DetectedAt    time.Time `yaml:"detected_at"`
}

// DeviceFromResult records a detection result for the device at ip.
func DeviceFromResult(name, ip string, result detect.Result) Device {
	return Device{
		Name:          name,
		IP:            ip,
		Encryption:    result.Mode.String(),
		UseEncryption: result.UseEncryption(),
		Key:           string(result.Key),
		DetectedAt:    time.Now().UTC(),
	}
}

// Mode parses the stored encryption mode.
func (d Device) Mode() (detect.Mode, error) {
	return detect.ParseMode(d.Encryption)
}

// Validate checks that the record can be used to poll the device.
func (d Device) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", candyerrors.ErrInvalidDevice)
	}
	if strings.TrimSpace(d.IP) == "" {
		return fmt.Errorf("%w: %s: ip is required", candyerrors.ErrInvalidDevice, d.Name)
	}
	if d.Key != "" && !crypto.IsValidKey([]byte(d.Key)) {
		return fmt.Errorf("%w: %s: key must be %d alphanumeric characters", candyerrors.ErrInvalidDevice, d.Name, crypto.KeyLen)
	}

	mode, err := d.Mode()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", candyerrors.ErrInvalidDevice, d.Name, err)
	}
	wantKey := mode == detect.Encryption
	if d.UseEncryption != (mode != detect.NoEncryption) || wantKey != (d.Key != "") {
		return fmt.Errorf("%w: %s: encryption %s does not match use_encryption=%t and key", candyerrors.ErrInvalidDevice, d.Name, mode, d.UseEncryption)
	}
	return nil
}
