package annotation

import (
	"fmt"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
)

// Decoder turns a record description into a core.Annotation.
type Decoder struct {
	// Required makes a missing tag a format error instead of an absent channel.
	Required bool
}

type channelDef struct {
	tag  string
	kind core.ChannelKind
}

var channels = []channelDef{
	{core.TagSecStruct, core.Categorical},
	{core.TagTransmembrane, core.Categorical},
	{core.TagConfidence, core.Numeric},
	{core.TagAccessibility, core.Numeric},
}

// Decode decodes all four channels of a record. Each present channel must have
// exactly seqLen values. On error the returned annotation has every channel absent.
func (d Decoder) Decode(recordID, description string, seqLen int) (core.Annotation, error) {
	decoded := make([]core.Channel, len(channels))
	for i, def := range channels {
		ch, err := d.decodeChannel(recordID, description, def, seqLen)
		if err != nil {
			return core.NoAnnotation(), err
		}
		decoded[i] = ch
	}
	return core.Annotation{
		SecStruct:     decoded[0],
		Transmembrane: decoded[1],
		Confidence:    decoded[2],
		Accessibility: decoded[3],
	}, nil
}

func (d Decoder) decodeChannel(recordID, description string, def channelDef, seqLen int) (core.Channel, error) {
	payload, ok := Lookup(description, def.tag)
	if !ok {
		if d.Required {
			return core.Channel{}, &core.AnnotationFormatError{
				RecordID: recordID,
				Tag:      def.tag,
				Reason:   "required tag is missing",
				Err:      core.ErrTagMissing,
			}
		}
		return core.AbsentChannel(def.tag, def.kind), nil
	}

	var (
		values []byte
		err    error
	)
	switch def.kind {
	case core.Numeric:
		values, err = DecodeHexPairs(payload)
	default:
		values, err = DecodeRunLength(payload, seqLen)
	}
	if err != nil {
		return core.Channel{}, &core.AnnotationFormatError{
			RecordID: recordID,
			Tag:      def.tag,
			Reason:   "malformed payload",
			Err:      err,
		}
	}

	if len(values) != seqLen {
		return core.Channel{}, &core.AnnotationFormatError{
			RecordID: recordID,
			Tag:      def.tag,
			Reason:   fmt.Sprintf("decoded length %d does not match sequence length %d", len(values), seqLen),
		}
	}
	return core.PresentChannel(def.tag, def.kind, values), nil
}
