package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"encoding/pem"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremon "github.com/kilianp07/ecodispatch/core/monitoring"
	coremqtt "github.com/kilianp07/ecodispatch/core/mqtt"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	caFile = filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o644))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o644))
	require.NoError(t, os.WriteFile(caFile, certPEM, 0o644))
	return
}

func useMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, tlsCfg.Certificates)
	assert.NotNil(t, tlsCfg.RootCAs)

	_, err = Config{UseTLS: true}.LoadTLSConfig()
	assert.Error(t, err)
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)

	opts, err = NewClientOptions(Config{Broker: "tcp://localhost:1883", AuthMethod: "certificate", Username: "u"})
	require.NoError(t, err)
	assert.Empty(t, opts.Username)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Enabled: true}.Validate())
	assert.Error(t, Config{Enabled: true, Broker: "tcp://b:1883", QoS: 3}.Validate())
	assert.Error(t, Config{Enabled: true, Broker: "tcp://b:1883", AuthMethod: "kerberos"}.Validate())
	assert.NoError(t, Config{Enabled: true, Broker: "tcp://b:1883", QoS: 1}.Validate())

	var c Config
	c.SetDefaults()
	assert.Equal(t, "grid/units", c.TopicPrefix)
	assert.Equal(t, 3, c.MaxRetries)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Victoria":                     "victoria",
		"Kelanitissa Combined Cycle":   "kelanitissa-combined-cycle",
		"  Sapugaskanda Diesel Ext.  ": "sapugaskanda-diesel-ext",
		"LVPS 3":                       "lvps-3",
		"Uma Ora":                      "uma-ora",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestPublishSetpoint(t *testing.T) {
	mc := &mockClient{}
	useMockClient(t, mc)
	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", TopicPrefix: "lk/grid/", QoS: 1, Retain: true})
	require.NoError(t, err)

	id, err := cli.PublishSetpoint(context.Background(), coremqtt.Setpoint{RunID: "run-1", Unit: "Upper Kotmale", MW: 75, Month: "jan", Hour: 12})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, mc.published, 1)
	msg := mc.published[0]
	assert.Equal(t, "lk/grid/upper-kotmale/setpoint", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var sp coremqtt.Setpoint
	require.NoError(t, json.Unmarshal(msg.payload, &sp))
	assert.Equal(t, id, sp.CommandID)
	assert.Equal(t, "run-1", sp.RunID)
	assert.InDelta(t, 75, sp.MW, 1e-9)
	assert.NotZero(t, sp.Timestamp)
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	useMockClient(t, mc)
	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1})
	require.NoError(t, err)
	assert.True(t, mc.opts.WillEnabled)
	assert.Equal(t, "lwt", mc.opts.WillTopic)
	assert.Equal(t, "bye", string(mc.opts.WillPayload))
	cli.Disconnect()
	assert.Empty(t, mc.published)
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	useMockClient(t, mc)
	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1})
	require.NoError(t, err)
	_, err = cli.PublishSetpoint(context.Background(), coremqtt.Setpoint{Unit: "Victoria", MW: 50})
	require.NoError(t, err)
	assert.Len(t, mc.published, 2)
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

func TestPublishErrorCaptured(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	useMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	t.Cleanup(func() { coremon.Init(coremon.NopMonitor{}) })

	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)
	_, err = cli.PublishSetpoint(context.Background(), coremqtt.Setpoint{Unit: "Victoria", MW: 50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, coremqtt.ErrPublishFailed))
	assert.Len(t, mc.published, 3)
	require.Error(t, mon.err)
	assert.Equal(t, "Victoria", mon.tags["unit"])
}

func TestPublishStopsOnCancel(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail, fail}}
	useMockClient(t, mc)
	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", MaxRetries: 3, BackoffMS: 10000})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cli.PublishSetpoint(ctx, coremqtt.Setpoint{Unit: "Victoria", MW: 50})
	require.Error(t, err)
	assert.ErrorIs(t, err, coremqtt.ErrPublishFailed)
	assert.Len(t, mc.published, 1)
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	m.FailUnits["Kotmale"] = true
	id, err := m.PublishSetpoint(context.Background(), coremqtt.Setpoint{Unit: "Upper Kotmale", MW: 10})
	require.NoError(t, err)
	assert.Equal(t, "cmd-upper-kotmale", id)
	_, err = m.PublishSetpoint(context.Background(), coremqtt.Setpoint{Unit: "Kotmale", MW: 10})
	assert.ErrorIs(t, err, coremqtt.ErrPublishFailed)
	sp, ok := m.Get("Upper Kotmale")
	require.True(t, ok)
	assert.InDelta(t, 10, sp.MW, 1e-9)
	assert.Equal(t, 1, m.Len())
}

type publishedMsg struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts        *paho.ClientOptions
	published   []publishedMsg
	publishErrs []error
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	m.published = append(m.published, publishedMsg{topic, qos, retained, b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }
