package dpv_test

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/dpvgen/pkg/dpv"
)

func ExampleEncode() {
	doc := &dpv.Document{
		FileName:    "board.dpv",
		PCBFileName: "board-pos.csv",
		Time:        time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
		Stations: []dpv.Station{
			{Stack: 1, Feed: 4, Note: "100nF", Height: 0.5, Status: dpv.DefaultStatus},
		},
		Components: []dpv.Component{
			{Head: 1, Stack: 1, X: 10, Y: 105, Height: 0.5, Ref: "C1", Part: "100nF"},
		},
	}

	var buf bytes.Buffer
	if err := dpv.Encode(&buf, doc); err != nil {
		panic(err)
	}
	for _, line := range strings.Split(buf.String(), "\r\n") {
		if strings.HasPrefix(line, "Station,") || strings.HasPrefix(line, "EComponent,") {
			fmt.Println(line)
		}
	}
	// Output:
	// Station,0,1,0,0,4,100nF,0.5,0,6,0,0
	// EComponent,0,1,1,1,10.00,105.00,0.0,0.5,6,0,C1,100nF
}
