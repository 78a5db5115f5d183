package bot

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/config"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSettings(t *testing.T) *config.Settings {
	return &config.Settings{
		Audio: config.Audio{
			Format:          "ogg",
			Bitrate:         "64k",
			SampleRate:      32000,
			FadeDuration:    1000,
			MaxLoudness:     -16,
			MaxDownloadSize: 20971520,
			MaxFilesize:     5242880,
			ButtonTimeout:   30 * time.Second,
			FormTimeout:     5 * time.Minute,
			SelectTimeout:   3 * time.Minute,
			DownloadTimeout: 10 * time.Minute,
			ConvertTimeout:  5 * time.Minute,
			DownloadPoll:    time.Second,
			ConvertPoll:     250 * time.Millisecond,
		},
		Bot:           config.Bot{Name: "Bot", Token: "token"},
		Channels:      config.Channels{Pack: "223456789012345678", ManagePack: "123456789012345678"},
		PackMessageID: "523456789012345678",
		GuildIDs:      []string{"323456789012345678"},
		DownloadDir:   t.TempDir(),
		Workers:       2,
	}
}

func TestForceIPv4(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tcp", "tcp4"},
		{"tcp6", "tcp4"},
		{"tcp4", "tcp4"},
		{"udp", "udp4"},
		{"udp6", "udp4"},
		{"ip6", "ip4"},
		{"unix", "unix"},
	}
	for _, tt := range tests {
		if got := forceIPv4(tt.in); got != tt.want {
			t.Errorf("forceIPv4(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDialIPv4(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no IPv4 loopback: %v", err)
	}
	defer ln.Close()

	conn, err := dialIPv4()(context.Background(), "tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	if addr, ok := conn.RemoteAddr().(*net.TCPAddr); !ok || addr.IP.To4() == nil {
		t.Errorf("RemoteAddr() = %v, want an IPv4 address", conn.RemoteAddr())
	}
}

func TestNewHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := NewHTTPClient().Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestNewWebsocketDialer(t *testing.T) {
	d := NewWebsocketDialer()
	if d.NetDialContext == nil || d.HandshakeTimeout != HandshakeTimeout {
		t.Errorf("unexpected dialer %+v", d)
	}
}

func TestPackConfig(t *testing.T) {
	s := testSettings(t)
	cfg := PackConfig(s)

	if cfg.PackChannelID != s.Channels.Pack || cfg.PackMessageID != s.PackMessageID || cfg.WorkDir != s.DownloadDir {
		t.Errorf("unexpected ids %+v", cfg)
	}
	if cfg.FadeMs != 1000 || cfg.MaxLoudness != -16 || cfg.MaxFilesize != 5242880 || cfg.MaxDownloadSize != 20971520 {
		t.Errorf("unexpected limits %+v", cfg)
	}
	if cfg.Timeouts.Confirm != time.Minute || cfg.Timeouts.ConvertPoll != 250*time.Millisecond {
		t.Errorf("unexpected timeouts %+v", cfg.Timeouts)
	}
}

func TestNew(t *testing.T) {
	b, err := New(context.Background(), testSettings(t), quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.Pool().Size() != 2 {
		t.Errorf("pool size = %d, want 2", b.Pool().Size())
	}
	if b.Controller().Active() != 0 {
		t.Errorf("Active() = %d", b.Controller().Active())
	}
	if b.session.Client != b.client || b.session.Dialer == nil {
		t.Error("session should use the IPv4 transport")
	}
	b.Close()
}

func TestClose_Nil(t *testing.T) {
	var b *Bot
	if err := b.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
	if err := (&Bot{}).Close(); err != nil {
		t.Errorf("Close() on empty bot = %v", err)
	}
}
