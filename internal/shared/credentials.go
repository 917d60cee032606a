package shared

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"review_replier/internal/domain"
)

// ServiceAccount is the decoded service-account key, kept as raw JSON for the
// OAuth layer plus the one field the rest of the system reads.
type ServiceAccount struct {
	JSON        []byte
	ClientEmail string
}

// DecodeServiceAccount accepts the secret in any of its shapes: a raw JSON
// object, a base64-encoded JSON object, or a bare JSON string. Decode order is
// fixed: object as-is, then base64+parse, then direct parse. A value that
// survives none of them is an ErrCredentialParse, never silent.
func DecodeServiceAccount(raw string) (*ServiceAccount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var data []byte
	if strings.HasPrefix(raw, "{") {
		data = []byte(raw)
	} else if dec, err := base64.StdEncoding.DecodeString(raw); err == nil && json.Valid(dec) {
		data = dec
	} else {
		data = []byte(raw)
	}

	var fields struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCredentialParse, err)
	}
	if fields.ClientEmail == "" {
		return nil, fmt.Errorf("%w: missing client_email", domain.ErrCredentialParse)
	}
	return &ServiceAccount{JSON: data, ClientEmail: fields.ClientEmail}, nil
}

// LoadServiceAccount resolves the secret from the config, preferring the
// inline value over the file indirection.
func LoadServiceAccount(cfg Config) (*ServiceAccount, error) {
	raw := cfg.ServiceAccountRaw
	if raw == "" && cfg.ServiceAccountFile != "" {
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCredentialParse, err)
		}
		raw = string(b)
	}
	return DecodeServiceAccount(raw)
}
