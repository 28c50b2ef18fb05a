package billing

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// newInvoiceNumber builds the human-facing invoice reference, e.g.
// INV-20260830-K3F. The suffix is random, not sequential, so numbers
// leak nothing about sales volume; uniqueness is carried by the id.
func newInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strconv.FormatInt(int64(rand.IntN(36*36*36)), 36))
	for len(suffix) < 3 {
		suffix = "0" + suffix
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
