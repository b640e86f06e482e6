package view

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/world"
	"github.com/segmentio/encoding/json"
	"github.com/vmihailenco/msgpack/v5"
)

// CmdType is the type of a view command.
type CmdType string

const (
	// CmdAdd tells a viewer that an object came into its bounds.
	CmdAdd CmdType = "add"

	// CmdRemove tells a viewer that an object left its bounds or the world.
	// Only the type and id of the object are set.
	CmdRemove CmdType = "remove"
)

// Cmd is a change to apply to the set of objects a viewer sees.
type Cmd struct {
	Type   CmdType      `json:"type"   msgpack:"type"`
	Object world.Object `json:"object" msgpack:"object"`
}

func addCmd(o world.Object) Cmd {
	return Cmd{Type: CmdAdd, Object: o}
}

func removeCmd(k world.ObjectKey) Cmd {
	return Cmd{
		Type:   CmdRemove,
		Object: world.Object{Type: k.Type, ID: k.ID},
	}
}

// Codec encodes command batches sent to viewers.
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

// Encode encodes a batch of commands with the given codec.
func Encode(c Codec, cmds []Cmd) ([]byte, error) {
	if cmds == nil {
		cmds = []Cmd{}
	}

	var b []byte
	var err error
	switch c {
	case CodecMsgpack:
		b, err = msgpack.Marshal(cmds)
	default:
		b, err = json.Marshal(cmds)
	}
	if err != nil {
		return nil, errors.New("encoding view commands failed").
			WithType(ErrTypeEncoding).
			WithTag("codec", c).
			WithTag("count", len(cmds)).
			Wrap(err)
	}
	return b, nil
}

// Decode decodes a batch of commands encoded with the given codec.
func Decode(c Codec, b []byte) ([]Cmd, error) {
	var cmds []Cmd
	var err error
	switch c {
	case CodecMsgpack:
		err = msgpack.Unmarshal(b, &cmds)
	default:
		err = json.Unmarshal(b, &cmds)
	}
	if err != nil {
		return nil, errors.New("decoding view commands failed").
			WithType(ErrTypeEncoding).
			WithTag("codec", c).
			Wrap(err)
	}
	return cmds, nil
}
