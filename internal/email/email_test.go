package email

import (
	"bufio"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math/big"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

// fakeRelay speaks just enough SMTP to accept one message.
type fakeRelay struct {
	listener net.Listener
	received chan string
}

func newFakeRelay(t *testing.T, tlsCfg *tls.Config) *fakeRelay {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	if tlsCfg != nil {
		listener = tls.NewListener(listener, tlsCfg)
	}
	r := &fakeRelay{listener: listener, received: make(chan string, 1)}
	go r.serve()
	t.Cleanup(func() { listener.Close() })
	return r
}

func (r *fakeRelay) port() int {
	return r.listener.Addr().(*net.TCPAddr).Port
}

func (r *fakeRelay) serve() {
	conn, err := r.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	fmt.Fprint(conn, "220 fake ESMTP\r\n")
	var data strings.Builder
	inData := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		if inData {
			if strings.TrimRight(line, "\r\n") == "." {
				inData = false
				r.received <- data.String()
				fmt.Fprint(conn, "250 queued\r\n")
				continue
			}
			data.WriteString(line)
			continue
		}
		switch cmd := strings.ToUpper(strings.TrimRight(line, "\r\n")); {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			fmt.Fprint(conn, "250 fake\r\n")
		case strings.HasPrefix(cmd, "AUTH"):
			fmt.Fprint(conn, "235 ok\r\n")
		case strings.HasPrefix(cmd, "MAIL FROM"), strings.HasPrefix(cmd, "RCPT TO"):
			fmt.Fprint(conn, "250 OK\r\n")
		case strings.HasPrefix(cmd, "DATA"):
			inData = true
			fmt.Fprint(conn, "354 go\r\n")
		case strings.HasPrefix(cmd, "QUIT"):
			fmt.Fprint(conn, "221 bye\r\n")
			return
		default:
			fmt.Fprint(conn, "250 OK\r\n")
		}
	}
}

func (r *fakeRelay) waitForMessage(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-r.received:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("relay received no message")
		return ""
	}
}

func selfSignedTLS(t *testing.T) *tls.Config {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		DNSNames:     []string{"127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return &tls.Config{Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}}}
}

func testProfile() types.CompanyProfile {
	return types.CompanyProfile{ID: "acme-1", CompanyName: "Acme", Email: "owner@acme.example"}
}

func TestSendReportPlaintextRelay(t *testing.T) {
	relay := newFakeRelay(t, nil)
	sender := NewSender(Config{Host: "127.0.0.1", Port: relay.port(), From: "reports@instareview.ai"})

	err := sender.SendReport(testProfile(), "https://example.com/report.pdf?sig=abc", logger.Discard())
	require.NoError(t, err)

	msg := relay.waitForMessage(t)
	assert.Contains(t, msg, "Subject: Your Weekly InstaReview Report is Ready - Acme")
	assert.Contains(t, msg, "To: owner@acme.example")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "https://example.com/report.pdf?sig=abc")
	assert.Contains(t, msg, "Content-Type: text/plain")
	assert.Contains(t, msg, "Content-Type: text/html")
}

func TestSendReportImplicitTLSRelay(t *testing.T) {
	relay := newFakeRelay(t, selfSignedTLS(t))
	sender := NewSender(Config{
		Host:        "127.0.0.1",
		Port:        relay.port(),
		Username:    "mailer",
		Password:    "secret",
		From:        "reports@instareview.ai",
		ImplicitTLS: true,
	})
	sender.tlsConfig = &tls.Config{InsecureSkipVerify: true}

	err := sender.SendReport(testProfile(), "https://example.com/report.pdf", logger.Discard())
	require.NoError(t, err)

	msg := relay.waitForMessage(t)
	assert.Contains(t, msg, "To: owner@acme.example")
}

func TestNewSenderPromotesSMTPSPort(t *testing.T) {
	assert.True(t, NewSender(Config{Port: 465}).cfg.ImplicitTLS)
	assert.False(t, NewSender(Config{Port: 587}).cfg.ImplicitTLS)
}

func TestSendReportRequiresRecipient(t *testing.T) {
	sender := NewSender(Config{Host: "127.0.0.1", Port: 2525})
	err := sender.SendReport(types.CompanyProfile{ID: "acme-1"}, "https://example.com/r.pdf", logger.Discard())
	assert.Error(t, err)
}
