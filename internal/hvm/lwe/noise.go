package lwe

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// sampleGaussian draws one sample from a zero-mean Gaussian with standard
// deviation sigma via the Box-Muller transform. The sqrt(-2*ln(u1)) term is
// evaluated at extended precision with ALTree/bigfloat so the sampler's tail
// behaviour does not degrade for the small sigma values typical of this
// scheme's noise budget.
func sampleGaussian(rnd io.Reader, sigma float64) (float64, error) {
	u1, err := randomUnitFloat(rnd)
	if err != nil {
		return 0, err
	}
	u2, err := randomUnitFloat(rnd)
	if err != nil {
		return 0, err
	}
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}

	const prec = 128
	lnU1 := bigfloat.Log(new(big.Float).SetPrec(prec).SetFloat64(u1))
	negTwoLnU1 := new(big.Float).SetPrec(prec).Mul(big.NewFloat(-2), lnU1)
	radius := bigfloat.Sqrt(negTwoLnU1)
	radiusF, _ := radius.Float64()

	theta := 2 * math.Pi * u2
	z0 := radiusF * math.Cos(theta)
	return z0 * sigma, nil
}

// randomUnitFloat reads 8 bytes from rnd and returns a float64 uniform on
// [0, 1), using the top 53 bits for full double-precision mantissa entropy.
func randomUnitFloat(rnd io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(v) / float64(uint64(1)<<53), nil
}
