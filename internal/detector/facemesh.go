package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// FaceMeshDetector implements Detector using a Python MediaPipe FaceMesh
// subprocess. Access to the subprocess is serialized with a mutex, so a
// single instance is safe to share across concurrent analysis requests.
type FaceMeshDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewFaceMeshDetector creates a new FaceMesh detector.
// The Python process is started lazily on first detection.
func NewFaceMeshDetector(config Config) (*FaceMeshDetector, error) {
	scriptPath := findFaceMeshScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("facemesh_service.py not found")
	}

	if config.MaxFaces <= 0 {
		config.MaxFaces = 1
	}

	return &FaceMeshDetector{
		config: config,
	}, nil
}

// Detect analyzes an image and returns detected face landmarks.
func (d *FaceMeshDetector) Detect(img *imaging.Image) ([]FaceLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	data, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Faces []jsonFace `json:"faces"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	result := make([]FaceLandmarks, 0, len(response.Faces))
	for _, f := range response.Faces {
		if f.Score < d.config.MinConfidence {
			continue
		}
		result = append(result, f.toFaceLandmarks())
		if len(result) >= d.config.MaxFaces {
			break
		}
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	return result, nil
}

// Close shuts down the Python process.
func (d *FaceMeshDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// encodeJPEG converts the image to BGR channel order and compresses it
// to JPEG for the wire protocol.
func encodeJPEG(img *imaging.Image) ([]byte, error) {
	bgr := make([]uint8, len(img.Pix))
	for i := 0; i < len(img.Pix); i += 3 {
		bgr[i] = img.Pix[i+2]
		bgr[i+1] = img.Pix[i+1]
		bgr[i+2] = img.Pix[i]
	}

	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return nil, fmt.Errorf("create frame mat: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func (d *FaceMeshDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findFaceMeshScript()
	if scriptPath == "" {
		return fmt.Errorf("facemesh_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath,
		fmt.Sprintf("--max-faces=%d", d.config.MaxFaces))

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start facemesh service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	return nil
}

func (d *FaceMeshDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *FaceMeshDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findFaceMeshScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/facemesh_service.py",
		"../scripts/facemesh_service.py",
		filepath.Join(execDir, "scripts/facemesh_service.py"),
		filepath.Join(os.Getenv("HOME"), ".med-it-easy/scripts/facemesh_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".med-it-easy/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonFace represents the JSON structure from the Python service.
type jsonFace struct {
	Points []jsonPoint `json:"points"`
	Score  float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (f jsonFace) toFaceLandmarks() FaceLandmarks {
	lm := FaceLandmarks{
		Score: f.Score,
	}

	for i := 0; i < NumLandmarks && i < len(f.Points); i++ {
		lm.Points[i] = Point{
			X: f.Points[i].X,
			Y: f.Points[i].Y,
		}
	}

	return lm
}
