package telephony

import (
	"encoding/xml"
	"fmt"
)

// Voice connect document rendering. When the employee answers the first leg,
// the provider fetches this document and bridges the call to the lead.

type voiceResponse struct {
	XMLName xml.Name  `xml:"Response"`
	Dial    voiceDial `xml:"Dial"`
}

type voiceDial struct {
	CallerID string `xml:"callerId,attr,omitempty"`
	Number   string `xml:"Number"`
}

// RenderConnectDocument builds the XML document that dials the lead's number,
// presenting callerID as the caller.
func RenderConnectDocument(leadPhone, callerID string) (string, error) {
	doc, err := xml.MarshalIndent(voiceResponse{
		Dial: voiceDial{
			CallerID: callerID,
			Number:   leadPhone,
		},
	}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to render connect document: %w", err)
	}
	return xml.Header + string(doc), nil
}
