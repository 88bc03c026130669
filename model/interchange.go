package model

import (
	"encoding/xml"
	"fmt"
)

// The interchange schema consumed by third-party tournament software. One
// <result> record per board, carrying the seed numbers and the stored
// result code verbatim.
type roundResults struct {
	XMLName xml.Name       `xml:"roundResults"`
	DBKey   string         `xml:"dbKey,attr"`
	Round   int            `xml:"round,attr"`
	Results []resultRecord `xml:"result"`
}

type resultRecord struct {
	Board    int    `xml:"board,attr"`
	WhiteSNo int    `xml:"whiteSNo,attr"`
	BlackSNo int    `xml:"blackSNo,attr"`
	Code     string `xml:",chardata"`
}

// RenderInterchangeXML renders merged pairings into the federation export
// format. It is a pure transform: the caller decides what goes in.
func RenderInterchangeXML(dbKey string, round int, pairings []Pairing) ([]byte, error) {
	doc := roundResults{
		DBKey:   dbKey,
		Round:   round,
		Results: make([]resultRecord, 0, len(pairings)),
	}
	for _, p := range pairings {
		doc.Results = append(doc.Results, resultRecord{
			Board:    p.Board,
			WhiteSNo: p.WhiteSNo,
			BlackSNo: p.BlackSNo,
			Code:     string(p.Result),
		})
	}

	out, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error rendering interchange xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
