package thinking

import (
	"strings"
)

// ErrorKind is the outcome of classifying a failed call.
type ErrorKind int

const (
	// KindFatal errors propagate to the caller.
	KindFatal ErrorKind = iota
	// KindUnsupportedParameter errors mean the provider rejected the thinking flag.
	KindUnsupportedParameter
)

func (k ErrorKind) String() string {
	if k == KindUnsupportedParameter {
		return "unsupported_parameter"
	}
	return "fatal"
}

var rejectionPhrases = []string{
	"does not support",
	"not support",
	"unsupported",
	"unknown parameter",
	"unrecognized parameter",
	"invalid parameter",
	"extra inputs are not permitted",
}

// Classify inspects the text of err. A nil error is fatal by convention so
// callers never retry on it.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindFatal
	}
	return ClassifyText(err.Error())
}

// ClassifyText classifies a provider error message, case-insensitively.
func ClassifyText(text string) ErrorKind {
	text = strings.ToLower(text)
	if strings.Contains(text, "unexpected keyword argument") && strings.Contains(text, "extra_body") {
		return KindUnsupportedParameter
	}
	if !strings.Contains(text, "thinking") {
		return KindFatal
	}
	for _, phrase := range rejectionPhrases {
		if strings.Contains(text, phrase) {
			return KindUnsupportedParameter
		}
	}
	return KindFatal
}
