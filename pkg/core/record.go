// Package core provides the intermediate representation (IR) models and validation logic
// shared by the peptide matching engine, its readers and its writers.
package core

// Record is one entry of the sequence database.
type Record struct {
	ID          string // first whitespace-delimited token of the header
	Description string // remainder of the header line; may embed annotation tags
	Seq         []byte // residues, in file order
}

// Len returns the number of residues in the record.
func (r *Record) Len() int {
	return len(r.Seq)
}

// Annotation tags recognized in record descriptions.
const (
	TagSecStruct     = "secstruct"
	TagTransmembrane = "transmembrane"
	TagConfidence    = "confidence"
	TagAccessibility = "accessibility"
)

// ChannelKind distinguishes per-residue label channels from 0-255 score channels.
type ChannelKind int

const (
	Categorical ChannelKind = iota // one label character per residue
	Numeric                        // one 0-255 value per residue
)

func (k ChannelKind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Channel is a per-residue annotation array that is either present or absent for a record.
// Numeric values are stored one byte per residue.
type Channel struct {
	Tag     string
	Kind    ChannelKind
	Values  []byte
	present bool
}

// PresentChannel returns a channel carrying values.
func PresentChannel(tag string, kind ChannelKind, values []byte) Channel {
	return Channel{Tag: tag, Kind: kind, Values: values, present: true}
}

// AbsentChannel returns a channel with no data.
func AbsentChannel(tag string, kind ChannelKind) Channel {
	return Channel{Tag: tag, Kind: kind}
}

// Present reports whether the channel carries data for the record.
func (c Channel) Present() bool {
	return c.present
}

// Annotation groups the four optional channels decoded from a record description.
type Annotation struct {
	SecStruct     Channel
	Transmembrane Channel
	Confidence    Channel
	Accessibility Channel
}

// NoAnnotation returns an Annotation with every channel absent.
func NoAnnotation() Annotation {
	return Annotation{
		SecStruct:     AbsentChannel(TagSecStruct, Categorical),
		Transmembrane: AbsentChannel(TagTransmembrane, Categorical),
		Confidence:    AbsentChannel(TagConfidence, Numeric),
		Accessibility: AbsentChannel(TagAccessibility, Numeric),
	}
}

// Channels returns the channels in reporting order.
func (a Annotation) Channels() []Channel {
	return []Channel{a.SecStruct, a.Transmembrane, a.Confidence, a.Accessibility}
}

// Present reports whether any channel carries data.
func (a Annotation) Present() bool {
	for _, c := range a.Channels() {
		if c.Present() {
			return true
		}
	}
	return false
}
