package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/model"
	coremon "github.com/kilianp07/courseadvisor/core/monitoring"
	"github.com/kilianp07/courseadvisor/core/notify"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
	opts, _ = NewClientOptions(Config{Broker: "tcp://localhost:1883", Username: "u", AuthMethod: "certificate"})
	if opts.Username != "" {
		t.Fatalf("username set for certificate auth")
	}
	if opts.ClientID == "" {
		t.Fatalf("client id not generated")
	}
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func notification() notify.Notification {
	return notify.Notification{
		RequestID:       "req-1",
		StudentID:       "s42",
		Schedule:        model.ScheduleOf("s42", catalog.SampleCourses()[:2]),
		RequiredCredits: 6,
	}
}

func TestNotifyPublishesToStudentTopic(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "id", QoS: 1, Retain: true})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	if err := n.Notify(context.Background(), notification()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(mc.published))
	}
	got := mc.published[0]
	if got.topic != "courseadvisor/student/s42/recommendation" || got.qos != 1 || !got.retained {
		t.Fatalf("unexpected publish %+v", got)
	}
	var msg Message
	if err := json.Unmarshal(got.payload, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.RequestID != "req-1" || len(msg.Courses) != 2 || msg.Summary.TotalCredits != 7 || msg.MessageID == "" {
		t.Fatalf("unexpected payload %+v", msg)
	}
}

func TestNotifyRequiresStudent(t *testing.T) {
	withMockClient(t, &mockClient{})
	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	nt := notification()
	nt.StudentID = ""
	if err := n.Notify(context.Background(), nt); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1}
	n, err := NewPahoNotifier(cfg)
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	if !mc.opts.WillEnabled {
		t.Fatalf("will not enabled")
	}
	if mc.opts.WillTopic != "lwt" || string(mc.opts.WillPayload) != "bye" {
		t.Fatalf("will options incorrect")
	}
	_ = n.Close()
	if len(mc.published) != 0 {
		t.Fatalf("unexpected publish on disconnect")
	}
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMockClient(t, mc)
	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	if err := n.Notify(context.Background(), notification()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
}

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) CapturePanic(any)    {}
func (r *recordMonitor) Flush(time.Duration) {}

func TestNotifyFailureLeftToCaller(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	withMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Reset()

	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	err = n.Notify(context.Background(), notification())
	if !errors.Is(err, fail) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
	if len(mc.published) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(mc.published))
	}
	if mon.err != nil {
		t.Fatalf("notifier should not report to the monitor itself: %v", mon.err)
	}
}

func TestNotifyRejectsTopicBreakingIDs(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	for _, id := range []string{"", "a/b", "s+", "#", "x/#"} {
		nt := notification()
		nt.StudentID = id
		if err := n.Notify(context.Background(), nt); !errors.Is(err, ErrInvalidStudentID) {
			t.Errorf("%q: expected ErrInvalidStudentID, got %v", id, err)
		}
	}
	if len(mc.published) != 0 {
		t.Fatalf("published %d messages for invalid ids", len(mc.published))
	}
	if err := ValidStudentID("s-42.b"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
}

func TestNotifyStopsOnCancel(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail, fail}}
	withMockClient(t, mc)
	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", MaxRetries: 3, BackoffMS: 1000})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = n.Notify(ctx, notification())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{QoS: 3}).Validate(); err == nil {
		t.Fatalf("expected qos error")
	}
	if err := (Config{MaxRetries: -1}).Validate(); err == nil {
		t.Fatalf("expected retries error")
	}
	if Topic("", "a") != "courseadvisor/student/a/recommendation" || Topic("campus", "a") != "campus/student/a/recommendation" {
		t.Fatalf("unexpected topic")
	}
}

func TestMockNotifier(t *testing.T) {
	m := NewMockNotifier()
	if err := m.Notify(context.Background(), notification()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	m.FailIDs["s42"] = true
	if err := m.Notify(context.Background(), notification()); err == nil {
		t.Fatalf("expected failure")
	}
	if got := m.Sent("s42"); len(got) != 1 || got[0].StudentID != "s42" {
		t.Fatalf("unexpected messages %+v", got)
	}
}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts        *paho.ClientOptions
	published   []published
	publishErrs []error
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	m.published = append(m.published, published{topic: topic, qos: qos, retained: retained, payload: b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}
func (m *mockClient) Subscribe(string, byte, paho.MessageHandler) paho.Token { return &dummyToken{} }
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return true }

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}
