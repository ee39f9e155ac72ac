package types

// MethodType enumerates the SIP request methods known to the stack.
// The zero value is [MethodUnknown], which is used together with the literal
// method text for methods outside of this set.
//
// The numeric order is part of the API: it defines how method values sort,
// with MethodUnknown before every known method.
type MethodType uint8

const (
	MethodUnknown MethodType = iota
	MethodAck
	MethodBye
	MethodCancel
	MethodInfo
	MethodInvite
	MethodMessage
	MethodNotify
	MethodOptions
	MethodPrack
	MethodPublish
	MethodRefer
	MethodRegister
	MethodService
	MethodSubscribe
	MethodUpdate

	numMethods
)

var methodNames = [numMethods]string{
	MethodUnknown:   "UNKNOWN",
	MethodAck:       "ACK",
	MethodBye:       "BYE",
	MethodCancel:    "CANCEL",
	MethodInfo:      "INFO",
	MethodInvite:    "INVITE",
	MethodMessage:   "MESSAGE",
	MethodNotify:    "NOTIFY",
	MethodOptions:   "OPTIONS",
	MethodPrack:     "PRACK",
	MethodPublish:   "PUBLISH",
	MethodRefer:     "REFER",
	MethodRegister:  "REGISTER",
	MethodService:   "SERVICE",
	MethodSubscribe: "SUBSCRIBE",
	MethodUpdate:    "UPDATE",
}

var methodsByName = func() map[string]MethodType {
	m := make(map[string]MethodType, numMethods-1)
	for _, mt := range KnownMethods() {
		m[methodNames[mt]] = mt
	}
	return m
}()

// String returns the canonical method token.
func (m MethodType) String() string {
	if m >= numMethods {
		return methodNames[MethodUnknown]
	}
	return methodNames[m]
}

// IsKnown reports whether m is one of the enumerated methods.
func (m MethodType) IsKnown() bool { return m > MethodUnknown && m < numMethods }

// LookupMethod matches the whole token s against the known method names.
// Matching is case-sensitive as method names are case-sensitive in SIP.
// It returns [MethodUnknown] when s is not a known method.
func LookupMethod[T ~string | ~[]byte](s T) MethodType {
	if m, ok := methodsByName[string(s)]; ok {
		return m
	}
	return MethodUnknown
}

// KnownMethods returns all known methods in their sort order.
func KnownMethods() []MethodType {
	ms := make([]MethodType, 0, numMethods-1)
	for i := MethodAck; i < numMethods; i++ {
		ms = append(ms, i)
	}
	return ms
}
