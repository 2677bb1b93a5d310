package action

// Opcode identifies one operation of the closed instruction set.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// context slots
	OpArgsRead     // AX
	OpContextRead  // CR
	OpContextWrite // CW

	// element & global lookup
	OpElementByID     // EI
	OpElementTarget   // ET
	OpGlobalRead      // GR
	OpTypeEnsure      // TY
	OpLiteral         // JS
	OpNoop            // NO
	OpThrowError      // TE
	OpPropertyRead    // PR
	OpPropertyReadAny // pr
	OpPropertyWrite   // PW
	OpInvokeVirtual   // IV
	OpInvokeUnchecked // IU

	// control
	OpChain    // W1
	OpSequence // WS
	OpIfElse   // IF
	OpFunction // FN
	OpForEach  // FE
	OpDelay    // DE

	// documents & navigation
	OpMorph          // MO
	OpNavigate       // NA
	OpSubmit         // SU
	OpRender         // RE
	OpLocation       // LO
	OpUpdateHead     // UH
	OpUpdateBody     // UB
	OpUpdateElements // UE
	OpScrollTo       // ST
	OpHistoryPush    // HP

	opcodeCount
)

var opcodeCodes = [opcodeCount]string{
	OpInvalid:         "",
	OpArgsRead:        "AX",
	OpContextRead:     "CR",
	OpContextWrite:    "CW",
	OpElementByID:     "EI",
	OpElementTarget:   "ET",
	OpGlobalRead:      "GR",
	OpTypeEnsure:      "TY",
	OpLiteral:         "JS",
	OpNoop:            "NO",
	OpThrowError:      "TE",
	OpPropertyRead:    "PR",
	OpPropertyReadAny: "pr",
	OpPropertyWrite:   "PW",
	OpInvokeVirtual:   "IV",
	OpInvokeUnchecked: "IU",
	OpChain:           "W1",
	OpSequence:        "WS",
	OpIfElse:          "IF",
	OpFunction:        "FN",
	OpForEach:         "FE",
	OpDelay:           "DE",
	OpMorph:           "MO",
	OpNavigate:        "NA",
	OpSubmit:          "SU",
	OpRender:          "RE",
	OpLocation:        "LO",
	OpUpdateHead:      "UH",
	OpUpdateBody:      "UB",
	OpUpdateElements:  "UE",
	OpScrollTo:        "ST",
	OpHistoryPush:     "HP",
}

// Code returns the wire code of the opcode.
func (o Opcode) Code() string {
	if o >= opcodeCount {
		return ""
	}
	return opcodeCodes[o]
}

func (o Opcode) String() string {
	if code := o.Code(); code != "" {
		return code
	}
	return "invalid"
}

// ParseOpcode resolves a wire code. Codes are case sensitive ("PR" and "pr" differ).
func ParseOpcode(code string) (Opcode, bool) {
	switch code {
	case "AX":
		return OpArgsRead, true
	case "CR":
		return OpContextRead, true
	case "CW":
		return OpContextWrite, true
	case "EI":
		return OpElementByID, true
	case "ET":
		return OpElementTarget, true
	case "GR":
		return OpGlobalRead, true
	case "TY":
		return OpTypeEnsure, true
	case "JS":
		return OpLiteral, true
	case "NO":
		return OpNoop, true
	case "TE":
		return OpThrowError, true
	case "PR":
		return OpPropertyRead, true
	case "pr":
		return OpPropertyReadAny, true
	case "PW":
		return OpPropertyWrite, true
	case "IV":
		return OpInvokeVirtual, true
	case "IU":
		return OpInvokeUnchecked, true
	case "W1":
		return OpChain, true
	case "WS":
		return OpSequence, true
	case "IF":
		return OpIfElse, true
	case "FN":
		return OpFunction, true
	case "FE":
		return OpForEach, true
	case "DE":
		return OpDelay, true
	case "MO":
		return OpMorph, true
	case "NA":
		return OpNavigate, true
	case "SU":
		return OpSubmit, true
	case "RE":
		return OpRender, true
	case "LO":
		return OpLocation, true
	case "UH":
		return OpUpdateHead, true
	case "UB":
		return OpUpdateBody, true
	case "UE":
		return OpUpdateElements, true
	case "ST":
		return OpScrollTo, true
	case "HP":
		return OpHistoryPush, true
	}
	return OpInvalid, false
}

// Codes lists every valid wire code in declaration order.
func Codes() []string {
	codes := make([]string, 0, opcodeCount-1)
	for op := OpArgsRead; op < opcodeCount; op++ {
		codes = append(codes, op.Code())
	}
	return codes
}
