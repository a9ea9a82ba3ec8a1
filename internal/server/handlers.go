package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeongseonghan/acoustic-modem/internal/audio"
	"github.com/jeongseonghan/acoustic-modem/internal/modem"
	"github.com/jeongseonghan/acoustic-modem/internal/session"
)

// Handlers holds the HTTP API handlers.
type Handlers struct {
	plan       modem.ChannelPlan
	sampleRate float64
	sess       *session.Session
	wsHub      *WSHub
	uploadDir  string
	receiveDir string
	mu         sync.Mutex
}

// NewHandlers creates new API handlers using plan for every session it
// opens.
func NewHandlers(plan modem.ChannelPlan, sampleRate float64, uploadDir, receiveDir string) *Handlers {
	return &Handlers{
		plan:       plan,
		sampleRate: sampleRate,
		wsHub:      NewWSHub(),
		uploadDir:  uploadDir,
		receiveDir: receiveDir,
	}
}

// pumpSessionEvents forwards sess's lifecycle events to every connected
// WebSocket client until stop is closed.
func (h *Handlers) pumpSessionEvents(sess *session.Session, stop <-chan struct{}) {
	for {
		select {
		case evt := <-sess.Events():
			h.wsHub.BroadcastSessionEvent(evt)
		case <-stop:
			return
		}
	}
}

// HandleWebSocket handles WebSocket upgrade requests.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	h.wsHub.AddClient(conn)

	go func() {
		defer h.wsHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// HandleUpload handles file upload for sending.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, fmt.Sprintf("Parse form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("Get file: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	os.MkdirAll(h.uploadDir, 0o755)
	outPath := filepath.Join(h.uploadDir, header.Filename)
	outFile, err := os.Create(outPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Create file: %v", err), http.StatusInternalServerError)
		return
	}
	defer outFile.Close()

	n, err := outFile.ReadFrom(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Save file: %v", err), http.StatusInternalServerError)
		return
	}

	h.wsHub.BroadcastLog("info", fmt.Sprintf("File uploaded: %s (%d bytes)", header.Filename, n))

	json.NewEncoder(w).Encode(map[string]interface{}{
		"filename": header.Filename,
		"size":     n,
		"status":   "uploaded",
	})
}

// HandleSend initiates file sending over the default output device.
func (h *Handlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Parse request: %v", err), http.StatusBadRequest)
		return
	}

	filePath := filepath.Join(h.uploadDir, req.Filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	go func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		stream := audio.NewStream(h.sampleRate)
		if err := stream.OpenOutput(); err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Audio output open failed: %v", err))
			return
		}
		defer stream.Close()

		sess, err := session.NewSender(h.plan, h.sampleRate, stream)
		if err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Session create failed: %v", err))
			return
		}
		h.sess = sess

		stop := make(chan struct{})
		go h.pumpSessionEvents(sess, stop)
		defer close(stop)

		if err := sess.SendCalibration(); err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Calibration failed: %v", err))
			return
		}

		err = sess.SendFile(filePath, func(sent, total int64, status string) {
			progress := 0.0
			if total > 0 {
				progress = float64(sent) / float64(total)
			}
			h.wsHub.BroadcastProgress("transferring", status, progress, sent, total)
		})
		if err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Send failed: %v", err))
			return
		}

		h.wsHub.BroadcastLog("info", "File sent successfully!")
	}()

	json.NewEncoder(w).Encode(map[string]string{"status": "sending"})
}

// HandleReceiveStart starts receiving mode on the default input device.
func (h *Handlers) HandleReceiveStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	go func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		stream := audio.NewStream(h.sampleRate)
		if err := stream.OpenInput(); err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Audio input open failed: %v", err))
			return
		}
		defer stream.Close()

		sess, err := session.NewReceiver(h.plan, h.sampleRate, stream)
		if err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Session create failed: %v", err))
			return
		}
		h.sess = sess

		stop := make(chan struct{})
		go h.pumpSessionEvents(sess, stop)
		defer close(stop)

		os.MkdirAll(h.receiveDir, 0o755)

		const maxFileBytes = 64 << 20
		result, err := sess.ReceiveFile(h.receiveDir, maxFileBytes, func(done, total int64, status string) {
			progress := 0.0
			if total > 0 {
				progress = float64(done) / float64(total)
			}
			h.wsHub.BroadcastProgress("transferring", status, progress, done, total)
		})
		if err != nil {
			h.wsHub.BroadcastStatus("error", fmt.Sprintf("Receive failed: %v", err))
			return
		}

		h.wsHub.BroadcastLog("info", fmt.Sprintf("File received: %s (%d bytes)", result.Name, result.Size))
	}()

	json.NewEncoder(w).Encode(map[string]string{"status": "receiving"})
}

// HandleStatus returns current session status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := "idle"
	if h.sess != nil {
		status = "active"
	}
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// HandleDevices lists available audio devices.
func (h *Handlers) HandleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := audio.ListDevices()
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"devices":   devices,
		"hasInput":  audio.HasInputDevice(),
		"hasOutput": audio.HasOutputDevice(),
	})
}

// HandleDownload serves received files for download.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if filename == "" {
		http.Error(w, "Filename required", http.StatusBadRequest)
		return
	}

	filePath := filepath.Join(h.receiveDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, filePath)
}
