package clients

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
)

// GoogleClientOptions turns the configured service-account credentials into
// client options shared by the storage and vision clients. The value is
// either inline JSON or a path to a key file. Blank means application default
// credentials. A key file that cannot be read, or a key that is not JSON, is
// an error.
func GoogleClientOptions(credentials string) ([]option.ClientOption, error) {
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return nil, nil
	}

	raw := []byte(credentials)
	source := "inline credentials"
	if !strings.HasPrefix(credentials, "{") {
		b, err := os.ReadFile(credentials)
		if err != nil {
			return nil, fmt.Errorf("read google credentials file: %w", err)
		}
		raw = b
		source = credentials
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("google credentials in %s are not valid JSON", source)
	}
	return []option.ClientOption{option.WithCredentialsJSON(raw)}, nil
}
