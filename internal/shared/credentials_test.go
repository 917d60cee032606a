package shared_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"review_replier/internal/domain"
	"review_replier/internal/shared"
)

const saJSON = `{"type":"service_account","client_email":"bot@proj.iam.gserviceaccount.com","private_key":"---"}`

func TestDecodeServiceAccount_RawObject(t *testing.T) {
	sa, err := shared.DecodeServiceAccount(saJSON)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sa.ClientEmail != "bot@proj.iam.gserviceaccount.com" {
		t.Fatalf("client email: %q", sa.ClientEmail)
	}
	if string(sa.JSON) != saJSON {
		t.Fatalf("raw JSON not preserved")
	}
}

func TestDecodeServiceAccount_Base64(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString([]byte(saJSON))
	sa, err := shared.DecodeServiceAccount(enc)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sa.ClientEmail != "bot@proj.iam.gserviceaccount.com" {
		t.Fatalf("client email: %q", sa.ClientEmail)
	}
}

func TestDecodeServiceAccount_WhitespacePaddedObject(t *testing.T) {
	sa, err := shared.DecodeServiceAccount("  \n" + saJSON + "\n")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sa == nil {
		t.Fatalf("expected credential")
	}
}

func TestDecodeServiceAccount_Empty(t *testing.T) {
	sa, err := shared.DecodeServiceAccount("")
	if err != nil || sa != nil {
		t.Fatalf("empty secret must yield no credential and no error, got %v %v", sa, err)
	}
}

func TestDecodeServiceAccount_Garbage(t *testing.T) {
	_, err := shared.DecodeServiceAccount("!!not base64, not json!!")
	if !errors.Is(err, domain.ErrCredentialParse) {
		t.Fatalf("expected ErrCredentialParse, got %v", err)
	}
}

func TestDecodeServiceAccount_MissingEmail(t *testing.T) {
	_, err := shared.DecodeServiceAccount(`{"type":"service_account"}`)
	if !errors.Is(err, domain.ErrCredentialParse) {
		t.Fatalf("expected ErrCredentialParse, got %v", err)
	}
}
