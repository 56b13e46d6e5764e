package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestChunks(t *testing.T) {
	data := bytes.Repeat([]byte{0x1b}, 45)
	chunks := Chunks(data, 20)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if len(chunks[0]) != 20 || len(chunks[2]) != 5 {
		t.Fatalf("sizes %d, %d", len(chunks[0]), len(chunks[2]))
	}
	if len(Chunks(nil, 20)) != 0 {
		t.Fatal("empty data produced chunks")
	}
}

func TestPrintWithoutPrinter(t *testing.T) {
	r := NewRegistry(NewBridge("http://127.0.0.1:1"), 0)
	err := r.Print(context.Background(), []byte("hello"))
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v", err)
	}
	if err.Error() != "No Bluetooth printer connected." {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestConnectRequiresTransfer(t *testing.T) {
	r := NewRegistry(nil, 0)
	if err := r.Connect(Peripheral{PeripheralID: "AA:BB"}); !errors.Is(err, ErrNoTransfer) {
		t.Fatalf("err = %v", err)
	}
	if r.Status().IsPrinterConnected {
		t.Fatal("connected without a transfer characteristic")
	}
}

func TestBridgeWritesChunks(t *testing.T) {
	var mu sync.Mutex
	var got []writeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/write" {
			http.NotFound(w, r)
			return
		}
		var req writeRequest
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		json.NewEncoder(w).Encode(writeResponse{Success: true})
	}))
	defer srv.Close()

	r := NewRegistry(NewBridge(srv.URL+"/"), 0)
	p := Peripheral{PeripheralID: "AA:BB", ServiceID: "18f0", Transfer: "2af1", Receive: "2af0"}
	if err := r.Connect(p); err != nil {
		t.Fatal(err)
	}

	data := bytes.Repeat([]byte("x"), 41)
	if err := r.Print(context.Background(), data); err != nil {
		t.Fatalf("print: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("bridge saw %d writes, want 3", len(got))
	}
	var joined []byte
	for _, req := range got {
		if req.Characteristic != "2af1" || req.PeripheralID != "AA:BB" || !req.WithoutResponse {
			t.Fatalf("bad request %+v", req)
		}
		joined = append(joined, req.Data...)
	}
	if !bytes.Equal(joined, data) {
		t.Fatal("chunks do not reassemble to the original data")
	}
}

func TestBridgeFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(writeResponse{Success: false, Message: "paper out"})
	}))
	defer srv.Close()

	r := NewRegistry(NewBridge(srv.URL), 20)
	r.Connect(Peripheral{PeripheralID: "AA:BB", Transfer: "2af1"})

	err := r.Print(context.Background(), []byte("hi"))
	if err == nil || err.Error() != "chunk 0: write failed: paper out" {
		t.Fatalf("err = %v", err)
	}

	r.Disconnect()
	if st := r.Status(); st.IsPrinterConnected || st.Service != nil {
		t.Fatalf("status after disconnect = %+v", st)
	}
}
