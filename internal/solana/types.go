package solana

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// ParsedTransaction is a transaction fetched with jsonParsed encoding.
// It carries the fields the classifier needs: parsed instructions (top-level
// plus inner) and pre/post token balances.
type ParsedTransaction struct {
	Signature         string
	Slot              int64
	BlockTime         int64 // Unix seconds, 0 if unknown
	Err               interface{}
	Instructions      []ParsedInstruction
	InnerInstructions []ParsedInstruction
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
}

// Failed reports whether the transaction errored on chain.
func (t *ParsedTransaction) Failed() bool {
	return t.Err != nil
}

// ParsedInstruction is one instruction as decoded by the RPC node.
// Program is the node's symbolic name ("spl-token",
// "spl-associated-token-account", "system", ...); instructions the node
// cannot decode have a nil Parsed.
type ParsedInstruction struct {
	Program   string           `json:"program"`
	ProgramID string           `json:"programId"`
	Parsed    *InstructionInfo `json:"parsed"`
}

// InstructionInfo is the decoded instruction payload.
type InstructionInfo struct {
	Type string          `json:"type"`
	Info InstructionArgs `json:"info"`
}

// InstructionArgs holds the account fields relevant to token account
// creation and initialization. Unrelated fields are ignored.
type InstructionArgs struct {
	Account string `json:"account"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Wallet  string `json:"wallet"` // associated-token-account create uses "wallet"
	Source  string `json:"source"`
}

// TokenBalance is a pre/post token balance entry from transaction meta.
type TokenBalance struct {
	AccountIndex int           `json:"accountIndex"`
	Mint         string        `json:"mint"`
	Owner        string        `json:"owner"`
	UIAmount     UITokenAmount `json:"uiTokenAmount"`
}

// UITokenAmount is the token amount in raw and display forms.
type UITokenAmount struct {
	Amount   string   `json:"amount"`
	Decimals int      `json:"decimals"`
	UIAmount *float64 `json:"uiAmount"`
}
