package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	careerhubErrors "careerhub/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	addr := httpServer.Addr

	switch s.TLSConfig.Mode {
	case "server":
		fmt.Printf("Starting server with HTTPS on https://%s\n", addr)

		reloader, err := newCertReloader(s.TLSConfig.CertFile, s.TLSConfig.KeyFile, s.Logger)
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		s.certReloader = reloader

		httpServer.TLSConfig = &tls.Config{
			MinVersion:     s.minTLSVersion(),
			GetCertificate: reloader.GetCertificate,
		}
		return nil
	case "disabled":
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", s.TLSConfig.Mode)
	}
}

// minTLSVersion maps the configured version string onto the tls constant
func (s *Server) minTLSVersion() uint16 {
	switch s.TLSConfig.MinVersion {
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}

// certReloader serves the server keypair and transparently picks up renewed
// certificate files without a restart. File system events are debounced so
// an atomic cert+key rotation triggers a single reload.
type certReloader struct {
	mu       sync.RWMutex
	cert     *tls.Certificate
	certFile string
	keyFile  string

	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	stopChan      chan struct{}
	logger        *careerhubErrors.Logger
}

func newCertReloader(certFile, keyFile string, logger *careerhubErrors.Logger) (*certReloader, error) {
	if certFile == "" || keyFile == "" {
		return nil, fmt.Errorf("TLS certificate and key files are required")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}

	cr := &certReloader{
		cert:     &cert,
		certFile: certFile,
		keyFile:  keyFile,
		stopChan: make(chan struct{}),
		logger:   logger,
	}

	if err := cr.startWatching(); err != nil {
		return nil, err
	}

	return cr, nil
}

// GetCertificate is installed as the tls.Config callback so every handshake
// sees the latest loaded keypair.
func (cr *certReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.cert, nil
}

func (cr *certReloader) startWatching() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cr.watcher = watcher

	// Watch the parent directories rather than the files themselves so
	// atomic writes (rename over the old file) are still observed.
	dirs := map[string]struct{}{
		filepath.Dir(cr.certFile): {},
		filepath.Dir(cr.keyFile):  {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			cr.cleanupWatcher()
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	go cr.watchLoop()

	if cr.logger != nil {
		cr.logger.Info("TLS certificate watcher started",
			"cert_file", cr.certFile,
			"key_file", cr.keyFile)
	}
	return nil
}

func (cr *certReloader) cleanupWatcher() {
	if cr.watcher != nil {
		if closeErr := cr.watcher.Close(); closeErr != nil && cr.logger != nil {
			cr.logger.LogError(closeErr, "Failed to close certificate watcher")
		}
	}
}

func (cr *certReloader) watchLoop() {
	for {
		select {
		case event, ok := <-cr.watcher.Events:
			if !ok {
				return
			}
			if cr.shouldProcessEvent(event) {
				cr.scheduleReload()
			}
		case err, ok := <-cr.watcher.Errors:
			if !ok {
				return
			}
			if cr.logger != nil {
				cr.logger.LogError(err, "Certificate watcher error")
			}
		case <-cr.stopChan:
			return
		}
	}
}

func (cr *certReloader) shouldProcessEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if base != filepath.Base(cr.certFile) && base != filepath.Base(cr.keyFile) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload debounces bursts of file events into one reload attempt
func (cr *certReloader) scheduleReload() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}
	cr.debounceTimer = time.AfterFunc(time.Second, cr.reload)
}

// reload re-reads the keypair. A half-rotated pair fails to parse and the
// previous certificate stays in service.
func (cr *certReloader) reload() {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)
	if err != nil {
		if cr.logger != nil {
			cr.logger.LogError(err, "Failed to reload TLS certificates, keeping previous pair")
		}
		return
	}

	cr.mu.Lock()
	cr.cert = &cert
	cr.mu.Unlock()

	if cr.logger != nil {
		cr.logger.Info("TLS certificates reloaded successfully")
	}
}

// Stop shuts down the watcher goroutine.
func (cr *certReloader) Stop() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	close(cr.stopChan)
	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}
	if cr.watcher != nil {
		return cr.watcher.Close()
	}
	return nil
}
