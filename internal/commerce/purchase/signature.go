// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SignatureTolerance bounds the clock skew accepted on a signed notification.
const SignatureTolerance = 5 * time.Minute

const signatureVersion = "v1"

var (
	errMalformedSignature = errors.New("purchase: malformed signature header")
	errStaleSignature     = errors.New("purchase: signature timestamp outside tolerance")
	errSignatureMismatch  = errors.New("purchase: no matching signature")
)

/*
VerifySignature checks a gateway signature header against the raw body.

The header has the form "t=<unix seconds>,v1=<hex>" where the hex value is
HMAC-SHA256(secret, "<t>.<body>"). Several v1 entries may be present while the
gateway rotates secrets; any match is accepted.
*/
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	timestamp, signatures, err := parseSignature(header)
	if err != nil {
		return err
	}

	skew := now.Sub(time.Unix(timestamp, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > SignatureTolerance {
		return errStaleSignature
	}

	expected := Sign(timestamp, payload, secret)
	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}
	return errSignatureMismatch
}

// Sign returns the hex signature for payload at timestamp.
func Sign(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader formats a header value the way the gateway sends it.
func SignatureHeader(timestamp int64, payload []byte, secret string) string {
	return "t=" + strconv.FormatInt(timestamp, 10) + "," + signatureVersion + "=" + Sign(timestamp, payload, secret)
}

func parseSignature(header string) (int64, []string, error) {
	var (
		timestamp  int64
		signatures []string
	)

	if strings.TrimSpace(header) == "" {
		return 0, nil, errMalformedSignature
	}

	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, errMalformedSignature
			}
			timestamp = parsed
		case signatureVersion:
			signatures = append(signatures, value)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, errMalformedSignature
	}
	return timestamp, signatures, nil
}
