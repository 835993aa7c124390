// Package pass generates QR-coded visitor and VIP entry passes.
package pass

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ErrIncompletePass is returned when a pass request lacks registration data
var ErrIncompletePass = errors.New("pass request is incomplete")

// Type distinguishes regular and VIP passes
type Type string

const (
	Visitor Type = "visitor"
	VIP     Type = "vip"
)

// Request carries the visitor registration a pass is generated from
type Request struct {
	PassType    Type   `json:"pass_type"`
	VisitorName string `json:"visitor_name"`
	Purpose     string `json:"purpose"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	FromTime    string `json:"from_time"`
	ToTime      string `json:"to_time"`
	RecordID    string `json:"record_id"`
	VisitorID   string `json:"visitor_id,omitempty"`
}

// Validate trims every field and checks that all but VisitorID are set
func (r *Request) Validate() error {
	fields := []struct {
		name string
		val  *string
	}{
		{"visitor_name", &r.VisitorName},
		{"purpose", &r.Purpose},
		{"from_date", &r.FromDate},
		{"to_date", &r.ToDate},
		{"from_time", &r.FromTime},
		{"to_time", &r.ToTime},
		{"record_id", &r.RecordID},
	}

	var missing []string
	for _, f := range fields {
		*f.val = strings.TrimSpace(*f.val)
		if *f.val == "" {
			missing = append(missing, f.name)
		}
	}
	r.VisitorID = strings.TrimSpace(r.VisitorID)

	switch r.PassType {
	case Visitor, VIP:
	case "":
		missing = append(missing, "pass_type")
	default:
		return fmt.Errorf("%w: unknown pass type %q", ErrIncompletePass, r.PassType)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompletePass, strings.Join(missing, ", "))
	}
	return nil
}

// Pass is a generated pass with its rendered QR code
type Pass struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Payload     string    `json:"payload"`
	Request     Request   `json:"request"`
	GeneratedAt time.Time `json:"generated_at"`
	PNG         []byte    `json:"-"`
}

// Base64 returns the PNG encoded for share sheets and JSON responses
func (p *Pass) Base64() string {
	return base64.StdEncoding.EncodeToString(p.PNG)
}

// Generator renders passes and saves them to an album directory
type Generator struct {
	albumDir string
	size     int
	logger   *zap.Logger
	now      func() time.Time
}

// NewGenerator creates a Generator rendering size×size PNGs into albumDir
func NewGenerator(albumDir string, size int, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{albumDir: albumDir, size: size, logger: logger, now: time.Now}
}

// Generate validates req and renders its QR code. The code encodes the
// visitor id, or the registration record id when no visitor id was issued.
func (g *Generator) Generate(req Request) (*Pass, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := req.VisitorID
	if payload == "" {
		payload = req.RecordID
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	title := "VISITOR PASS"
	if req.PassType == VIP {
		title = "VIP PASS"
	}

	p := &Pass{
		ID:          uuid.New().String(),
		Title:       title,
		Payload:     payload,
		Request:     req,
		GeneratedAt: g.now().UTC(),
		PNG:         png,
	}
	g.logger.Info("pass generated",
		zap.String("pass", p.ID),
		zap.String("type", string(req.PassType)),
		zap.String("record", req.RecordID),
	)
	return p, nil
}

// Save writes the pass PNG into the album directory, creating it if needed,
// and returns the file path
func (g *Generator) Save(p *Pass) (string, error) {
	if err := os.MkdirAll(g.albumDir, 0o755); err != nil {
		return "", fmt.Errorf("create album: %w", err)
	}

	path := filepath.Join(g.albumDir, p.ID+".png")
	if err := os.WriteFile(path, p.PNG, 0o644); err != nil {
		return "", fmt.Errorf("save pass: %w", err)
	}

	g.logger.Info("pass saved", zap.String("pass", p.ID), zap.String("path", path))
	return path, nil
}
