package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// WireVersion is the current program wire-format version.
// Increment when making incompatible changes to the format.
const WireVersion uint16 = 1

// WireMagic identifies serialized stencil programs.
const WireMagic = "STBC"

// cborEncMode uses canonical mode so an encoded program is
// byte-for-byte deterministic; the same program always produces the
// same artifact.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// programEnvelope is the on-wire shape of a Program.
type programEnvelope struct {
	Magic   string   `cbor:"magic"`
	Version uint16   `cbor:"version"`
	Code    []Word   `cbor:"code"`
	Strings []string `cbor:"strings"`
}

// MarshalProgram serializes a program to CBOR bytes.
func MarshalProgram(p *Program) ([]byte, error) {
	env := programEnvelope{
		Magic:   WireMagic,
		Version: WireVersion,
		Code:    p.Code,
		Strings: p.Strings,
	}
	return cborEncMode.Marshal(&env)
}

// UnmarshalProgram deserializes and validates a program from CBOR
// bytes. A program that would fault the decoder is rejected here rather
// than handed to an engine.
func UnmarshalProgram(data []byte) (*Program, error) {
	var env programEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if env.Magic != WireMagic {
		return nil, fmt.Errorf("bytecode: invalid program magic: expected %q, got %q", WireMagic, env.Magic)
	}
	if env.Version > WireVersion {
		return nil, fmt.Errorf("bytecode: program version %d is newer than supported version %d", env.Version, WireVersion)
	}
	p := &Program{Code: env.Code, Strings: env.Strings}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
