package domain

type SandboxKind int

const (
	// FullyRestricted isolates embedded content with no capabilities. It is the zero value.
	FullyRestricted SandboxKind = iota
	// Restricted grants the capabilities in the allowlist only.
	Restricted
	// Unrestricted embeds without a sandbox; reserved for types that cannot render otherwise.
	Unrestricted
)

// SandboxPolicy is the embedding isolation applied to a MIME type.
type SandboxPolicy struct {
	Kind      SandboxKind
	Allowlist string
}

func NewRestricted(allowlist string) SandboxPolicy {
	return SandboxPolicy{Kind: Restricted, Allowlist: allowlist}
}

// Attribute returns the iframe sandbox attribute value and whether the attribute is present.
func (p SandboxPolicy) Attribute() (string, bool) {
	switch p.Kind {
	case Unrestricted:
		return "", false
	case Restricted:
		return p.Allowlist, true
	default:
		return "", true
	}
}

// CSP returns the Content-Security-Policy sandbox directive for the policy, empty when unrestricted.
func (p SandboxPolicy) CSP() string {
	value, ok := p.Attribute()
	if !ok {
		return ""
	}
	if value == "" {
		return "sandbox"
	}
	return "sandbox " + value
}

func (p SandboxPolicy) String() string {
	switch p.Kind {
	case Unrestricted:
		return "unrestricted"
	case Restricted:
		return "restricted(" + p.Allowlist + ")"
	default:
		return "fully-restricted"
	}
}
