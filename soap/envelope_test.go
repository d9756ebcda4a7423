package soap

import (
	"regexp"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnvelopeStructure(t *testing.T) {
	body, err := BuildEnvelope("SetTarget", "urn:schemas-upnp-org:service:SwitchPower:1",
		[]Param{{Name: "NewTargetValue", Value: "1"}})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))

	env := doc.Root()
	require.NotNil(t, env)
	assert.Equal(t, "Envelope", env.Tag)
	assert.Equal(t, "SOAP-ENV", env.Space)
	assert.Equal(t, NSSoapEnv, env.SelectAttrValue("xmlns:SOAP-ENV", ""))
	assert.Equal(t, EncodingStyle, env.SelectAttrValue("SOAP-ENV:encodingStyle", ""))

	call := env.FindElement("Body/SetTarget")
	require.NotNil(t, call)
	assert.Equal(t, "m", call.Space)
	assert.Equal(t, "urn:schemas-upnp-org:service:SwitchPower:1",
		call.SelectAttrValue("xmlns:m", ""))

	arg := call.FindElement("NewTargetValue")
	require.NotNil(t, arg)
	assert.Equal(t, "1", arg.Text())
}

func TestBuildEnvelopeKeepsParamOrder(t *testing.T) {
	var params []Param
	for c := 'A'; c <= 'Z'; c++ {
		params = append(params, Param{Name: string(c), Value: "v"})
	}

	body, err := BuildEnvelope("Big", "urn:test:service:Big:1", params)
	require.NoError(t, err)

	matches := regexp.MustCompile(`<([A-Z])>`).FindAllSubmatch(body, -1)
	require.Len(t, matches, 26)
	for i, m := range matches {
		assert.Equal(t, string(rune('A'+i)), string(m[1]))
	}
}

func TestBuildEnvelopeEscapesValues(t *testing.T) {
	body, err := BuildEnvelope("Set", "urn:test:service:Esc:1",
		[]Param{{Name: "Text", Value: `<hello> & "goodbye"`}})
	require.NoError(t, err)

	// The raw markup must not survive serialization unescaped.
	assert.NotContains(t, string(body), "<hello>")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))
	arg := doc.FindElement("//Text")
	require.NotNil(t, arg)
	assert.Equal(t, `<hello> & "goodbye"`, arg.Text())
}

func TestBuildEnvelopeNoParams(t *testing.T) {
	body, err := BuildEnvelope("GetStatus", "urn:test:service:Switch:1", nil)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))
	call := doc.FindElement("//GetStatus")
	require.NotNil(t, call)
	assert.Empty(t, call.ChildElements())
}
