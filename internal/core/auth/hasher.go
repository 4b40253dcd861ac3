package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported credential schemes, as they appear in configuration.
const (
	SchemeArgon2id = "argon2id"
	SchemeBcrypt   = "bcrypt"
)

// Argon2Params are the cost parameters for new argon2id hashes.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultArgon2Params mirrors the common passlib defaults so hashes stay
// interoperable with other argon2id implementations.
var DefaultArgon2Params = Argon2Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// HasherConfig selects the hashing schemes. Schemes is ordered: the first entry
// hashes new credentials, the rest are only accepted for verification.
type HasherConfig struct {
	Schemes    []string
	Argon2     Argon2Params
	BcryptCost int
}

var ErrUnknownScheme = errors.New("unknown hashing scheme")

type scheme interface {
	name() string
	hash(plain string) (string, error)
	identifies(encoded string) bool
	verify(plain, encoded string) bool
	outdated(encoded string) bool
}

// PasswordHasher hashes and verifies credentials. Stored hashes are
// self-describing, so verification dispatches on the encoding prefix and a
// scheme change never invalidates existing credentials.
type PasswordHasher struct {
	schemes []scheme
}

// NewPasswordHasher builds a hasher from cfg. Zero-valued cost settings fall
// back to the defaults.
func NewPasswordHasher(cfg HasherConfig) (*PasswordHasher, error) {
	if len(cfg.Schemes) == 0 {
		return nil, fmt.Errorf("password hasher: %w: no schemes configured", ErrUnknownScheme)
	}
	params := cfg.Argon2
	if params.Memory == 0 || params.Time == 0 || params.Threads == 0 {
		params = DefaultArgon2Params
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 12
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password hasher: bcrypt cost %d out of range", cost)
	}

	h := &PasswordHasher{}
	seen := make(map[string]struct{}, len(cfg.Schemes))
	for _, raw := range cfg.Schemes {
		n := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		switch n {
		case SchemeArgon2id:
			h.schemes = append(h.schemes, argon2idScheme{params: params})
		case SchemeBcrypt:
			h.schemes = append(h.schemes, bcryptScheme{cost: cost})
		default:
			return nil, fmt.Errorf("password hasher: %w: %q", ErrUnknownScheme, raw)
		}
	}
	return h, nil
}

// Preferred returns the name of the scheme used for new hashes.
func (h *PasswordHasher) Preferred() string {
	return h.schemes[0].name()
}

// Hash derives a salted credential from plain using the preferred scheme.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	return h.schemes[0].hash(plain)
}

// Verify reports whether plain matches encoded. Unknown, disabled or corrupted
// encodings never match.
func (h *PasswordHasher) Verify(plain, encoded string) bool {
	s := h.schemeFor(encoded)
	if s == nil {
		return false
	}
	return s.verify(plain, encoded)
}

// NeedsRehash reports whether encoded should be replaced by a fresh hash from
// the preferred scheme.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	s := h.schemeFor(encoded)
	if s == nil || s.name() != h.Preferred() {
		return true
	}
	return s.outdated(encoded)
}

func (h *PasswordHasher) schemeFor(encoded string) scheme {
	for _, s := range h.schemes {
		if s.identifies(encoded) {
			return s
		}
	}
	return nil
}

// argon2idScheme produces PHC strings:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
type argon2idScheme struct {
	params Argon2Params
}

func (argon2idScheme) name() string { return SchemeArgon2id }

func (argon2idScheme) identifies(encoded string) bool {
	return strings.HasPrefix(encoded, "$argon2id$")
}

func (a argon2idScheme) hash(plain string) (string, error) {
	salt := make([]byte, a.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2id salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, a.params.Time, a.params.Memory, a.params.Threads, a.params.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.params.Memory, a.params.Time, a.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (argon2idScheme) verify(plain, encoded string) bool {
	p, salt, key, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(got, key) == 1
}

func (a argon2idScheme) outdated(encoded string) bool {
	p, _, _, err := decodeArgon2id(encoded)
	if err != nil {
		return true
	}
	return p.Memory < a.params.Memory || p.Time < a.params.Time || p.Threads < a.params.Threads
}

var errMalformedHash = errors.New("malformed credential hash")

// Upper bounds for cost parameters read back from a stored hash. A corrupted
// or hostile encoding past these is rejected before any key derivation runs.
const (
	maxArgon2Memory  = 1 << 20 // KiB, 1 GiB
	maxArgon2Time    = 10
	maxArgon2Threads = 64
	maxArgon2SaltLen = 64
	maxArgon2KeyLen  = 128
)

func decodeArgon2id(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, errMalformedHash
	}
	if p.Memory > maxArgon2Memory || p.Time > maxArgon2Time || p.Threads > maxArgon2Threads {
		return p, nil, nil, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 || len(salt) > maxArgon2SaltLen {
		return p, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxArgon2KeyLen {
		return p, nil, nil, errMalformedHash
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}

type bcryptScheme struct {
	cost int
}

func (bcryptScheme) name() string { return SchemeBcrypt }

func (bcryptScheme) identifies(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func (b bcryptScheme) hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (bcryptScheme) verify(plain, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
}

func (b bcryptScheme) outdated(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	return err != nil || cost < b.cost
}
