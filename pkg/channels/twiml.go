// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package channels

import "encoding/xml"

// TwiML control document types. Rendering goes through encoding/xml so
// reply text is always escaped, whatever the backend produced.

type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

// Gather instructs the telephony provider to capture speech within the
// timeout window and post the transcript back to Action.
type Gather struct {
	XMLName  xml.Name `xml:"Gather"`
	Input    string   `xml:"input,attr"`
	Action   string   `xml:"action,attr"`
	Language string   `xml:"language,attr,omitempty"`
	Timeout  int      `xml:"timeout,attr"`
	Prompt   *Say
}

type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type Message struct {
	XMLName xml.Name `xml:"Message"`
	Text    string   `xml:",chardata"`
}

// Document is one TwiML response. Field order fixes the verb order in the
// rendered XML: spoken output first, then either a fresh listen directive
// or the hangup.
type Document struct {
	XMLName xml.Name `xml:"Response"`
	Say     []Say
	Gather  *Gather
	Hangup  *Hangup
	Message *Message
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Render serializes the document. Marshaling these types cannot fail, so a
// marshal error is treated as an internal bug and surfaced as an empty
// error-free document would be worse; propagate it.
func (d *Document) Render() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), body...), nil
}
