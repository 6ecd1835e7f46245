package archiveio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wwpdb/onedep-io/site_model"
)

func TestAuthMethodsRequireCredentials(t *testing.T) {
	ctx := context.Background()
	aio := NewSftpArchiveIo(site_model.TransferServer{HostName: "archive.example.org"})
	if _, err := aio.authMethods(ctx); err == nil {
		t.Fatal("expected error for server without credentials")
	}
}

func TestAuthMethodsPassword(t *testing.T) {
	ctx := context.Background()
	aio := NewSftpArchiveIo(site_model.TransferServer{
		HostName: "archive.example.org",
		UserName: "wwpdb",
		Password: "secret",
	})
	methods, err := aio.authMethods(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(methods) != 1 {
		t.Fatalf("expected 1 auth method, got %d", len(methods))
	}
}

func TestAuthMethodsBadKeyFile(t *testing.T) {
	ctx := context.Background()

	aio := NewSftpArchiveIo(site_model.TransferServer{
		HostName:    "archive.example.org",
		KeyFilePath: filepath.Join(t.TempDir(), "missing_key"),
	})
	if _, err := aio.authMethods(ctx); err == nil {
		t.Fatal("expected error for missing key file")
	}

	keyPath := filepath.Join(t.TempDir(), "garbage_key")
	if err := os.WriteFile(keyPath, []byte("not a private key"), 0600); err != nil {
		t.Fatal(err)
	}
	aio = NewSftpArchiveIo(site_model.TransferServer{
		HostName:    "archive.example.org",
		KeyFilePath: keyPath,
	})
	if _, err := aio.authMethods(ctx); err == nil {
		t.Fatal("expected error for unparsable key file")
	}
}

func TestConnectUnreachable(t *testing.T) {
	ctx := context.Background()
	aio := NewSftpArchiveIo(site_model.TransferServer{
		HostName: "127.0.0.1",
		HostPort: 1,
		UserName: "wwpdb",
		Password: "secret",
	})
	if err := aio.Connect(ctx); err == nil {
		_ = aio.Close(ctx)
		t.Fatal("expected connection error")
	}
}
