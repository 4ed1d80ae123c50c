package helpers

import "testing"

func TestNewESClient(t *testing.T) {
	if _, err := NewESClient(ESOptions{}); err == nil {
		t.Fatal("expected error without addresses")
	}
	es, err := NewESClient(ESOptions{Addresses: []string{"http://127.0.0.1:9200"}, Username: "elastic", Password: "x"})
	if err != nil {
		t.Fatalf("NewESClient: %v", err)
	}
	if es == nil {
		t.Fatal("expected client")
	}
}
