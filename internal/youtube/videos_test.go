package youtube

import (
	"context"
	"errors"
	"testing"
)

func drainVideos(s *VideoStream) []VideoRecord {
	var out []VideoRecord
	for s.Next() {
		out = append(out, s.Video())
	}
	return out
}

func TestChannelVideosSinglePage(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{
		"https://host.test/@somechannel/videos": pageHTML(channelPage("UCtest", []any{
			videoItem("vid00000001", "first", "10 views", "1:00"),
			videoItem("vid00000002", "second", "20 views", "2:00"),
		})),
	}}
	s := newTestClient(ft).ChannelVideos(context.Background(), "@somechannel", 0)

	got := drainVideos(s)
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].VideoID != "vid00000001" || got[1].VideoID != "vid00000002" {
		t.Errorf("host order not preserved: %v, %v", got[0].VideoID, got[1].VideoID)
	}
	if got[0].ChannelID != "UCtest" {
		t.Errorf("channel_id = %q, want UCtest", got[0].ChannelID)
	}
	if ft.rpcCalls != 0 {
		t.Errorf("no continuation token present, but %d RPC calls made", ft.rpcCalls)
	}
}

func TestChannelVideosOrderAcrossPages(t *testing.T) {
	ft := &fakeTransport{
		pages: map[string]string{
			"https://host.test/@chan/videos": pageHTML(channelPage("UCtest", []any{
				videoItem("vid00000001", "a", "1 view", "1:00"),
				videoItem("vid00000002", "b", "1 view", "1:00"),
				listingToken("page-two-continuation-token"),
			})),
		},
		rpc: []rpcReply{
			{200, listingPage([]any{
				videoItem("vid00000003", "c", "1 view", "1:00"),
				videoItem("vid00000004", "d", "1 view", "1:00"),
				listingToken("page-three-continuation-token"),
			})},
			{200, listingPage([]any{
				videoItem("vid00000005", "e", "1 view", "1:00"),
			})},
		},
	}
	s := newTestClient(ft).ChannelVideos(context.Background(), "@chan", 0)

	got := drainVideos(s)
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d records, want 5", len(got))
	}
	for i, rec := range got {
		if rec.Order != i+1 {
			t.Errorf("record %d has order %d, want %d", i, rec.Order, i+1)
		}
	}
	if ft.rpcCalls != 2 {
		t.Errorf("made %d RPC calls, want 2", ft.rpcCalls)
	}
}

func TestChannelVideosLimitTruncatesExactly(t *testing.T) {
	ft := &fakeTransport{
		pages: map[string]string{
			"https://host.test/@chan/videos": pageHTML(channelPage("UCtest", []any{
				videoItem("vid00000001", "a", "1 view", "1:00"),
				videoItem("vid00000002", "b", "1 view", "1:00"),
				videoItem("vid00000003", "c", "1 view", "1:00"),
				listingToken("page-two-continuation-token"),
			})),
		},
	}
	s := newTestClient(ft).ChannelVideos(context.Background(), "@chan", 2)

	got := drainVideos(s)
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want exactly the limit of 2", len(got))
	}
	if ft.rpcCalls != 0 {
		t.Errorf("limit reached on first page, but %d RPC calls made", ft.rpcCalls)
	}
}

func TestChannelVideosPartialResultOnPageFailure(t *testing.T) {
	// Page 3 of the listing fails; pages 1-2 must still be delivered,
	// followed by a terminating error distinguishable from exhaustion.
	ft := &fakeTransport{
		pages: map[string]string{
			"https://host.test/@chan/videos": pageHTML(channelPage("UCtest", []any{
				videoItem("vid00000001", "a", "1 view", "1:00"),
				videoItem("vid00000002", "b", "1 view", "1:00"),
				listingToken("page-two-continuation-token"),
			})),
		},
		rpc: []rpcReply{
			{200, listingPage([]any{
				videoItem("vid00000003", "c", "1 view", "1:00"),
				videoItem("vid00000004", "d", "1 view", "1:00"),
				listingToken("page-three-continuation-token"),
			})},
			{500, "upstream exploded"},
		},
	}
	s := newTestClient(ft).ChannelVideos(context.Background(), "@chan", 0)

	got := drainVideos(s)
	if len(got) != 4 {
		t.Fatalf("got %d records, want the 4 from pages 1-2", len(got))
	}
	var rpcErr *RpcError
	if !errors.As(s.Err(), &rpcErr) {
		t.Fatalf("Err() = %v, want *RpcError", s.Err())
	}
	if rpcErr.Status != 500 || rpcErr.Endpoint != endpointBrowse {
		t.Errorf("unexpected error detail: %+v", rpcErr)
	}
}

func TestChannelVideosMalformedRPCResponse(t *testing.T) {
	ft := &fakeTransport{
		pages: map[string]string{
			"https://host.test/@chan/videos": pageHTML(channelPage("UCtest", []any{
				videoItem("vid00000001", "a", "1 view", "1:00"),
				listingToken("page-two-continuation-token"),
			})),
		},
		rpc: []rpcReply{{200, "<html>not json</html>"}},
	}
	s := newTestClient(ft).ChannelVideos(context.Background(), "@chan", 0)

	got := drainVideos(s)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	var mErr *MalformedResponseError
	if !errors.As(s.Err(), &mErr) {
		t.Fatalf("Err() = %v, want *MalformedResponseError", s.Err())
	}
}

func TestChannelVideosFetchFailure(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{}} // 404 for everything
	s := newTestClient(ft).ChannelVideos(context.Background(), "@missing", 0)

	if s.Next() {
		t.Fatal("expected no records from a failing fetch")
	}
	var fErr *FetchError
	if !errors.As(s.Err(), &fErr) {
		t.Fatalf("Err() = %v, want *FetchError", s.Err())
	}
	if fErr.Status != 404 {
		t.Errorf("status = %d, want 404", fErr.Status)
	}
}

func TestChannelVideosEmptyChannel(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{
		"https://host.test/@empty/videos": pageHTML(channelPage("UCempty", []any{})),
	}}
	s := newTestClient(ft).ChannelVideos(context.Background(), "@empty", 0)

	if s.Next() {
		t.Fatal("expected no records")
	}
	if err := s.Err(); err != nil {
		t.Fatalf("an empty channel is exhaustion, not an error: %v", err)
	}
}

func TestChannelVideosURL(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"@handle", "https://h/@handle/videos"},
		{"UCabcdefgh", "https://h/channel/UCabcdefgh/videos"},
		{"handle", "https://h/@handle/videos"},
	}
	for _, tt := range tests {
		got, err := channelVideosURL("https://h", tt.ref)
		if err != nil {
			t.Fatalf("channelVideosURL(%q): %v", tt.ref, err)
		}
		if got != tt.want {
			t.Errorf("channelVideosURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
	if _, err := channelVideosURL("https://h", " "); err == nil {
		t.Error("expected error for blank ref")
	}
}
