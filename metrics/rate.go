package metrics

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// MinMaxSpeed is the floor applied to observed maximum speeds so that an
// idle interface does not turn tiny amounts of traffic into full bars.
const MinMaxSpeed Rate = kib

// Ratio is a usage fraction, nominally between 0 and 1.
type Ratio float64

// Percentage returns the ratio itself.
func (r Ratio) Percentage() float64 { return float64(r) }

// Rate is a throughput in bytes per second.
type Rate float64

// Add returns the sum of two rates.
func (r Rate) Add(o Rate) Rate { return r + o }

// Max returns the larger of two rates.
func (r Rate) Max(o Rate) Rate {
	if o > r {
		return o
	}
	return r
}

// BytesPerSecond returns the rate in B/s.
func (r Rate) BytesPerSecond() float64 { return float64(r) }

// KiBs returns the rate in KiB/s.
func (r Rate) KiBs() float64 { return float64(r) / kib }

// MiBs returns the rate in MiB/s.
func (r Rate) MiBs() float64 { return float64(r) / mib }

// GiBs returns the rate in GiB/s.
func (r Rate) GiBs() float64 { return float64(r) / gib }

// ratio divides two rates, returning 0 when the denominator is zero.
func ratio(num, den Rate) Ratio {
	if den == 0 {
		return 0
	}
	return Ratio(num / den)
}
