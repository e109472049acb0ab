package ipc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"autosubsync/internal/ipc"
	"autosubsync/internal/testsupport"
)

func dialFake(t *testing.T) (*testsupport.FakeMPV, *ipc.Client) {
	t.Helper()
	server := testsupport.NewFakeMPV(t)
	client, err := ipc.Dial(server.Path, time.Second)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	server.WaitConnected()
	return server, client
}

func TestGetPropertyDecodesData(t *testing.T) {
	server, client := dialFake(t)
	server.SetProperty("path", "/media/movie.mkv")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var path string
	if err := client.GetProperty(ctx, "path", &path); err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if path != "/media/movie.mkv" {
		t.Fatalf("path = %q", path)
	}
}

func TestCommandErrorsSurfaceAsCommandError(t *testing.T) {
	server, client := dialFake(t)
	server.FailCommand("sub-add", "error running command")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Command(ctx, "sub-add", "/tmp/x.srt")
	var cmdErr *ipc.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.Reason != "error running command" {
		t.Fatalf("reason = %q", cmdErr.Reason)
	}
}

func TestMissingPropertyIsAnError(t *testing.T) {
	_, client := dialFake(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var value string
	if err := client.GetProperty(ctx, "nope", &value); err == nil {
		t.Fatal("expected error for unavailable property")
	}
}

func TestNamedCommandIsRecorded(t *testing.T) {
	server, client := dialFake(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := ipc.OverlayCommand{Name: "osd-overlay", ID: 1, Format: "none"}
	if _, err := client.CommandNamed(ctx, cmd); err != nil {
		t.Fatalf("CommandNamed: %v", err)
	}
	names := server.CommandNames()
	if len(names) != 1 || names[0] != "osd-overlay" {
		t.Fatalf("commands = %v", names)
	}
}

func TestEventsAreDelivered(t *testing.T) {
	server, client := dialFake(t)
	if err := server.ClientMessage("autosubsync", "open"); err != nil {
		t.Fatalf("emit: %v", err)
	}

	select {
	case ev := <-client.Events():
		if ev.Name != "client-message" {
			t.Fatalf("event = %q", ev.Name)
		}
		if len(ev.Args) != 2 || ev.Args[1] != "open" {
			t.Fatalf("args = %v", ev.Args)
		}
		if ev.ReceivedAt.IsZero() {
			t.Fatal("expected receive timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestDisconnectFailsPendingAndClosesEvents(t *testing.T) {
	server, client := dialFake(t)
	server.Disconnect()

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client did not notice disconnect")
	}
	if _, ok := <-client.Events(); ok {
		t.Fatal("expected events channel to be closed")
	}
	if !errors.Is(client.Err(), ipc.ErrClosed) {
		t.Fatalf("Err = %v", client.Err())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := client.Command(ctx, "show-text", "x"); !errors.Is(err, ipc.ErrClosed) {
		t.Fatalf("Command after close = %v", err)
	}
}
