// internal/service/upload_service_test.go
package service

import (
	"context"
	"strings"
	"testing"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/storage"
)

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"sales.csv", "text/csv"},
		{"Sales_Jan.CSV", "text/csv"},
		{"sales.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"report.XLSX", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"sales.txt", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tc := range tests {
		if got := contentTypeFor(tc.filename); got != tc.want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestProcessPersistsRows(t *testing.T) {
	stores := &fakeStoreRepo{store: domain.Store{ID: 1, StoreID: "STORE001", Name: "STORE001"}}
	skus := &fakeSKURepo{}
	sales := &fakeSalesRepo{}
	svc := NewUploadService(stores, skus, sales, nil, nil)

	csv := "Product Name,Quantity Sold,Date\nSugar,10,01/01/2026\nRice,5,02/01/2026\n"
	report, err := svc.Process(context.Background(), "sales.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !report.Success {
		t.Error("report not marked successful")
	}
	if report.RowsProcessed != 2 {
		t.Errorf("rows processed = %d, want 2", report.RowsProcessed)
	}
	if report.UploadID == "" {
		t.Error("upload id is empty")
	}
	if len(sales.replaced) != 1 {
		t.Fatalf("ReplaceWindow called %d times, want 1", len(sales.replaced))
	}
	if got := len(sales.replaced[0]); got != 2 {
		t.Errorf("persisted %d transactions, want 2", got)
	}
}

func TestListArchived(t *testing.T) {
	archive := &fakeStorage{objects: []storage.ObjectInfo{
		{Key: "uploads/abc/sales.csv", Size: 120},
		{Key: "uploads/def/jan.xlsx", Size: 4096},
	}}
	svc := NewUploadService(&fakeStoreRepo{}, &fakeSKURepo{}, &fakeSalesRepo{}, archive, nil)

	uploads, err := svc.ListArchived(context.Background())
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("got %d uploads, want 2", len(uploads))
	}
	if !strings.HasPrefix(uploads[0].Key, "uploads/") {
		t.Errorf("unexpected key %q", uploads[0].Key)
	}
}
