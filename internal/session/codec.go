package session

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
)

// TextExt selects the text format when it is the last four characters of
// a session path. Every other path uses the binary format.
const TextExt = ".txt"

// BinarySize is the encoded size of Parameters in binary form.
const BinarySize = 4 + 4 + 4*(2+3+3+3)

const textFormat = "%d %d %f %f %f %f %f %f %f %f %f %f %f"

// IsText reports whether path selects the text format.
func IsText(path string) bool {
	return len(path) >= len(TextExt) && path[len(path)-len(TextExt):] == TextExt
}

// Save writes p to path in the format selected by its extension.
func Save(path string, p Parameters) error {
	var data []byte
	if IsText(path) {
		data = []byte(MarshalText(p))
	} else {
		data = MarshalBinary(p)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save session %s: %w", path, err)
	}
	logger.Named("session").Debug("session saved", zap.String("path", path), zap.Uint32("seed", p.Seed))
	return nil
}

// Load returns the parameters stored at path. When read is false or the
// file cannot be read or parsed, defaults with the given flags and seed
// are used instead. A zero seed is replaced by a fresh one.
func Load(path string, read bool, flags DisplayFlags, seed uint32) Parameters {
	p := Defaults()
	p.Flags = flags
	p.Seed = seed

	if read && path != "" {
		loaded, err := readFile(path)
		if err != nil {
			logger.Named("session").Debug("using default session", zap.String("path", path), zap.Error(err))
		} else {
			p = loaded
		}
	}

	if p.Seed == 0 {
		p.Seed = FreshSeed()
	}
	return p
}

func readFile(path string) (Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parameters{}, err
	}
	if IsText(path) {
		return UnmarshalText(string(data))
	}
	return UnmarshalBinary(data)
}

// RequestsSerialization reports whether path names an existing empty
// file, the convention for "write the session here".
func RequestsSerialization(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular() && fi.Size() == 0
}

// MarshalText encodes p as 13 space separated fields.
func MarshalText(p Parameters) string {
	return fmt.Sprintf(textFormat,
		p.Seed, uint32(p.Flags),
		p.Angles.X, p.Angles.Y,
		p.Position.X, p.Position.Y, p.Position.Z,
		p.LightDir.X, p.LightDir.Y, p.LightDir.Z,
		p.LightPos.X, p.LightPos.Y, p.LightPos.Z,
	)
}

// UnmarshalText decodes the text form.
func UnmarshalText(s string) (Parameters, error) {
	var p Parameters
	var flags uint32
	n, err := fmt.Sscanf(strings.TrimSpace(s), textFormat,
		&p.Seed, &flags,
		&p.Angles.X, &p.Angles.Y,
		&p.Position.X, &p.Position.Y, &p.Position.Z,
		&p.LightDir.X, &p.LightDir.Y, &p.LightDir.Z,
		&p.LightPos.X, &p.LightPos.Y, &p.LightPos.Z,
	)
	if err != nil {
		return Parameters{}, fmt.Errorf("parse session: %d fields: %w", n, err)
	}
	p.Flags = DisplayFlags(flags)
	return p, nil
}

// MarshalBinary encodes p as little-endian uint32 seed and flags followed
// by float32 angles, position, light direction and light position.
func MarshalBinary(p Parameters) []byte {
	var buf bytes.Buffer
	buf.Grow(BinarySize)
	// bytes.Buffer writes cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, wireParams(p))
	return buf.Bytes()
}

// UnmarshalBinary decodes the binary form.
func UnmarshalBinary(data []byte) (Parameters, error) {
	if len(data) != BinarySize {
		return Parameters{}, fmt.Errorf("session data is %d bytes, expected %d", len(data), BinarySize)
	}
	var w wire
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &w); err != nil {
		return Parameters{}, fmt.Errorf("decode session: %w", err)
	}
	return Parameters{
		Seed:     w.Seed,
		Flags:    DisplayFlags(w.Flags),
		Angles:   vec2(w.Angles),
		Position: vec3(w.Position),
		LightDir: vec3(w.LightDir),
		LightPos: vec3(w.LightPos),
	}, nil
}
