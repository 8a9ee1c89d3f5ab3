package datasource

import (
	"context"
	"testing"

	"github.com/neosb/zipline/internal/codec"
	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
)

func TestBaseEmitsRecordsThenDone(t *testing.T) {
	sockets := transport.NewSockets(8)
	source := NewListSource([]Record{
		{Dt: 1, Payload: map[string]interface{}{"price": 1.0}},
		{Dt: 2, Payload: map[string]interface{}{"price": 2.0}},
	})
	base := NewBase("prices", "listsource", source, sockets, codec.NewJSONCodec())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		done, err := base.DoWork(ctx)
		if err != nil {
			t.Fatalf("DoWork() error = %v", err)
		}
		if done {
			t.Fatalf("DoWork() done = true too early at iteration %d", i)
		}
		select {
		case frame := <-sockets.Data.Receive():
			ev, err := codec.NewJSONCodec().UnframeEvent(frame)
			if err != nil {
				t.Fatalf("UnframeEvent() error = %v", err)
			}
			if ev.SourceID != "prices" {
				t.Errorf("SourceID = %q, want %q", ev.SourceID, "prices")
			}
			if ev.Seq != uint64(i) {
				t.Errorf("Seq = %d, want %d", ev.Seq, i)
			}
		default:
			t.Fatal("expected a frame on the data bus")
		}
	}

	done, err := base.DoWork(ctx)
	if err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}
	if !done {
		t.Fatal("DoWork() done = false, want true once exhausted")
	}
	select {
	case frame := <-sockets.Data.Receive():
		if !protocol.IsDataDoneFrame(frame) {
			t.Errorf("expected DONE sentinel, got %q", frame)
		}
	default:
		t.Fatal("expected a DONE frame on the data bus")
	}
}

func TestListSourceFromRawMissingDt(t *testing.T) {
	_, err := ListSourceFromRaw([]interface{}{
		map[string]interface{}{"price": 1.0},
	})
	if err == nil {
		t.Fatal("ListSourceFromRaw() error = nil, want non-nil for missing dt field")
	}
}

func TestListSourceFromRawValid(t *testing.T) {
	records, err := ListSourceFromRaw([]interface{}{
		map[string]interface{}{"dt": float64(100), "price": 9.5},
	})
	if err != nil {
		t.Fatalf("ListSourceFromRaw() error = %v", err)
	}
	if len(records) != 1 || records[0].Dt != 100 {
		t.Fatalf("records = %+v, want one record with dt=100", records)
	}
	if records[0].Payload["price"] != 9.5 {
		t.Errorf("payload[price] = %v, want 9.5", records[0].Payload["price"])
	}
}
