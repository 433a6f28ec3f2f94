package twilio

import (
	"encoding/xml"
	"fmt"
)

// Say speaks a prompt to the caller in the given language.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Language string   `xml:"language,attr"`
	Text     string   `xml:",chardata"`
}

// Record records the caller after the prompt and notifies the action
// endpoint once the recording is finished.
type Record struct {
	XMLName   xml.Name `xml:"Record"`
	MaxLength int      `xml:"maxLength,attr"`
	Action    string   `xml:"action,attr"`
}

// Dial bridges the call to a forwarding number with call recording
// enabled and a recording-completion callback configured.
type Dial struct {
	XMLName                 xml.Name `xml:"Dial"`
	RecordMode              string   `xml:"record,attr"`
	RecordingStatusCallback string   `xml:"recordingStatusCallback,attr"`
	Number                  string   `xml:",chardata"`
}

// Response is a TwiML call-control document.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Say     *Say     `xml:",omitempty"`
	Record  *Record  `xml:",omitempty"`
	Dial    *Dial    `xml:",omitempty"`
}

// Render serializes the document with the XML declaration Twilio expects.
func (r *Response) Render() (string, error) {
	body, err := xml.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal TwiML: %w", err)
	}
	return xml.Header + string(body), nil
}

// RecordScript answers with a spoken prompt followed by direct recording.
func RecordScript(greeting, language string, maxSeconds int, completionPath string) *Response {
	return &Response{
		Say:    &Say{Language: language, Text: greeting},
		Record: &Record{MaxLength: maxSeconds, Action: completionPath},
	}
}

// DialScript answers with a spoken prompt, then bridges to the forwarding
// number recording the bridged call from answer.
func DialScript(greeting, language, forwardNumber, callbackURL string) *Response {
	return &Response{
		Say: &Say{Language: language, Text: greeting},
		Dial: &Dial{
			RecordMode:              "record-from-answer",
			RecordingStatusCallback: callbackURL,
			Number:                  forwardNumber,
		},
	}
}
