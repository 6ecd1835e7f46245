package datasync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wwpdb/onedep-io/site_model"
)

type fakeSessionQuerier struct {
	ids []string
}

func (f *fakeSessionQuerier) ExpiredDataSets(ctx context.Context, cutoffHours int) ([]string, error) {
	return f.ids, nil
}

func depositSyncFixture(t *testing.T) (*DepositSync, string, string) {
	t.Helper()
	localRoot := t.TempDir()
	remoteRoot := t.TempDir()
	site := &site_model.Site{
		ArchiveRoot:      localRoot,
		ContentTypes:     site_model.DefaultContentTypes(),
		FormatExtensions: site_model.DefaultFormatExtensions(),
	}
	ds := NewDepositSync(site, remoteRoot, &fakeSessionQuerier{ids: []string{"D_000001"}})
	return ds, localRoot, remoteRoot
}

func TestSyncSingleToDeposit(t *testing.T) {
	ctx := context.Background()
	ds, localRoot, remoteRoot := depositSyncFixture(t)
	writeTree(t, localRoot, map[string]string{
		"deposit-ui/D_000001/data.json":                                "ui data",
		"deposit-ui/temp_files/deposition-v-200/D_000001/session.pkl": "pickle",
	})

	results, err := ds.SyncSingle(ctx, "D_000001", ToDeposit, SyncOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	data, err := os.ReadFile(filepath.Join(remoteRoot, "deposit-ui", "D_000001", "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ui data" {
		t.Errorf("got %q", data)
	}
	if _, err = os.Stat(filepath.Join(remoteRoot, "deposit-ui", "temp_files", "deposition-v-200", "D_000001", "session.pkl")); err != nil {
		t.Errorf("pickle not synced: %v", err)
	}
}

func TestSyncSingleFromDeposit(t *testing.T) {
	ctx := context.Background()
	ds, localRoot, remoteRoot := depositSyncFixture(t)
	writeTree(t, remoteRoot, map[string]string{
		"deposit-ui/D_000001/data.json": "remote ui data",
	})

	results, err := ds.SyncSingle(ctx, "D_000001", FromDeposit, SyncOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	data, err := os.ReadFile(filepath.Join(localRoot, "deposit-ui", "D_000001", "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "remote ui data" {
		t.Errorf("got %q", data)
	}
}

func TestSyncSingleRejects(t *testing.T) {
	ctx := context.Background()
	ds, _, _ := depositSyncFixture(t)

	if _, err := ds.SyncSingle(ctx, "G_1002003", ToDeposit, SyncOptions{}); err == nil {
		t.Error("expected error for group id")
	}
	if _, err := ds.SyncSingle(ctx, "D_000001", "sideways", SyncOptions{}); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestSyncExpired(t *testing.T) {
	ctx := context.Background()
	ds, localRoot, remoteRoot := depositSyncFixture(t)
	writeTree(t, remoteRoot, map[string]string{
		"deposit-ui/D_000001/data.json": "remote",
	})

	results, err := ds.SyncExpired(ctx, 24, SyncOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d entries", len(results))
	}
	if _, err = os.Stat(filepath.Join(localRoot, "deposit-ui", "D_000001", "data.json")); err != nil {
		t.Errorf("expired session not pulled back: %v", err)
	}
}
