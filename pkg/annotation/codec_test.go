package annotation

import (
	"bytes"
	"errors"
	"runtime"
	"testing"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

func TestLookup(t *testing.T) {
	desc := "sp|P1|TEST Some protein confidence:0a0b secstruct:2H3C"
	tests := []struct {
		name   string
		tag    string
		want   string
		wantOK bool
	}{
		{"numeric tag", "confidence", "0a0b", true},
		{"categorical tag", "secstruct", "2H3C", true},
		{"missing tag", "accessibility", "", false},
		{"prefix of another word", "Some", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(desc, tt.tag)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.tag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecodeRunLength(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		limit   int
		want    string
		wantErr bool
	}{
		{"secondary structure", "2H3C", 5, "HHCCC", false},
		{"multi-digit count", "12H3T4-", 19, "HHHHHHHHHHHHTTT----", false},
		{"single run", "1E", 1, "E", false},
		{"shorter than limit", "2H", 10, "HH", false},
		{"empty payload", "", 5, "", true},
		{"label without count", "H3C", 5, "", true},
		{"trailing count", "2H3", 5, "", true},
		{"adjacent labels", "2HC", 5, "", true},
		{"run past limit", "2H4C", 5, "", true},
		{"count overflows int", "99999999999999999999999H", 5, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRunLength(tt.payload, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRunLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("DecodeRunLength() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeRunLengthOversizedCount(t *testing.T) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Decoder{}.Decode("r1", "r1 secstruct:300000000H", 5)
	runtime.ReadMemStats(&after)

	var afe *core.AnnotationFormatError
	if !errors.As(err, &afe) || afe.Tag != core.TagSecStruct {
		t.Fatalf("Decode() error = %v, want secstruct AnnotationFormatError", err)
	}
	if grown := after.TotalAlloc - before.TotalAlloc; grown > 1<<20 {
		t.Errorf("rejecting a 5-residue record allocated %d bytes", grown)
	}
}

func TestRunLengthRoundTrip(t *testing.T) {
	inputs := []string{
		"H",
		"HHCCC",
		"---TTTTTTTTTTTTTTTTTTTTT----SSSS",
		"HECHECHEC",
		"________HHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHHH__",
	}
	for _, in := range inputs {
		enc, err := EncodeRunLength([]byte(in))
		if err != nil {
			t.Fatalf("EncodeRunLength(%q) error = %v", in, err)
		}
		dec, err := DecodeRunLength(enc, len(in))
		if err != nil {
			t.Fatalf("DecodeRunLength(%q) error = %v", enc, err)
		}
		if string(dec) != in {
			t.Errorf("round trip %q -> %q -> %q", in, enc, dec)
		}
	}
}

func TestEncodeRunLengthRejectsDigits(t *testing.T) {
	if _, err := EncodeRunLength([]byte("HH1")); err == nil {
		t.Error("expected error for digit label")
	}
}

func TestDecodeHexPairs(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []byte
		wantErr bool
	}{
		{"lowercase", "00ff1a", []byte{0, 255, 26}, false},
		{"uppercase", "0A0B", []byte{10, 11}, false},
		{"empty", "", []byte{}, false},
		{"odd length", "0a0", nil, true},
		{"non-hex", "0g", nil, true},
		{"negative marker from upstream", "-1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHexPairs(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeHexPairs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeHexPairs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHexPairsRoundTrip(t *testing.T) {
	values := make([]byte, 256)
	for i := range values {
		values[i] = byte(i)
	}
	dec, err := DecodeHexPairs(EncodeHexPairs(values))
	if err != nil {
		t.Fatalf("DecodeHexPairs() error = %v", err)
	}
	if !bytes.Equal(dec, values) {
		t.Errorf("round trip mismatch: got %v", dec)
	}
}

func TestDecoderDecode(t *testing.T) {
	desc := "P12345 protein confidence:0a141e281e secstruct:2H3C accessibility:0102030405 transmembrane:1S4-"
	ann, err := Decoder{}.Decode("P12345", desc, 5)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !ann.SecStruct.Present() || string(ann.SecStruct.Values) != "HHCCC" {
		t.Errorf("secstruct = %q (present %v)", ann.SecStruct.Values, ann.SecStruct.Present())
	}
	if string(ann.Transmembrane.Values) != "S----" {
		t.Errorf("transmembrane = %q", ann.Transmembrane.Values)
	}
	if !bytes.Equal(ann.Confidence.Values, []byte{10, 20, 30, 40, 30}) {
		t.Errorf("confidence = %v", ann.Confidence.Values)
	}
	if ann.Accessibility.Kind != core.Numeric || !bytes.Equal(ann.Accessibility.Values, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("accessibility = %v", ann.Accessibility.Values)
	}
}

func TestDecoderMissingTags(t *testing.T) {
	desc := "P1 secstruct:2H3C"

	ann, err := Decoder{}.Decode("P1", desc, 5)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !ann.SecStruct.Present() {
		t.Error("secstruct should be present")
	}
	if ann.Transmembrane.Present() || ann.Confidence.Present() || ann.Accessibility.Present() {
		t.Error("missing tags should decode as absent channels")
	}

	_, err = Decoder{Required: true}.Decode("P1", desc, 5)
	var afe *core.AnnotationFormatError
	if !errors.As(err, &afe) {
		t.Fatalf("expected AnnotationFormatError, got %v", err)
	}
	if !errors.Is(err, core.ErrTagMissing) {
		t.Errorf("expected ErrTagMissing, got %v", err)
	}
}

func TestDecoderErrorsDegradeToAbsent(t *testing.T) {
	tests := []struct {
		name    string
		desc    string
		seqLen  int
		wantTag string
	}{
		{"length mismatch", "P1 secstruct:2H3C", 6, core.TagSecStruct},
		{"odd hex", "P1 confidence:0a0", 2, core.TagConfidence},
		{"bad run length", "P1 transmembrane:T4-", 5, core.TagTransmembrane},
		{"hex length mismatch", "P1 accessibility:0a0b", 3, core.TagAccessibility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := Decoder{}.Decode("P1", tt.desc, tt.seqLen)
			var afe *core.AnnotationFormatError
			if !errors.As(err, &afe) {
				t.Fatalf("expected AnnotationFormatError, got %v", err)
			}
			if afe.Tag != tt.wantTag || afe.RecordID != "P1" {
				t.Errorf("error tag/record = %s/%s, want %s/P1", afe.Tag, afe.RecordID, tt.wantTag)
			}
			if ann.Present() {
				t.Error("annotation should degrade to absent on error")
			}
		})
	}
}
