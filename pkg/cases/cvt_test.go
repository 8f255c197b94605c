package cases

import (
	"math"
	"testing"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

// mustVal boxes raw bits in the case's output kind.
func mustVal(t *testing.T, c harness.Case, b uint64) harness.Value {
	t.Helper()
	return harness.Val(c.Output().Kind, b)
}

func TestCvtF32ToU16TruncatesAndSaturates(t *testing.T) {
	tests := []struct {
		x    float32
		want uint64
	}{
		{0, 0},
		{0.9, 0},
		{3.7, 3},
		{65535, 65535},
		{65535.9, 65535},
		{70000, 65535},
		{float32(math.Inf(1)), 65535},
		{-1, 0},
		{-0.5, 0},
		{float32(math.Inf(-1)), 0},
		{nan32, 0},
	}
	for _, tc := range tests {
		if got := cvtF32ToU16RZ(tc.x); got != tc.want {
			t.Errorf("cvt.rzi.u16.f32(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestCvtF32ToS16RoundsToNearestEven(t *testing.T) {
	tests := []struct {
		x    float32
		want int16
	}{
		{0, 0},
		{2.5, 2}, // ties to even
		{3.5, 4},
		{-2.5, -2},
		{-3.5, -4},
		{2.4, 2},
		{2.6, 3},
		{32766.6, 32767},
		{32768, 32767}, // saturate
		{1e9, 32767},
		{-32768.4, -32768},
		{-40000, -32768},
		{float32(math.Inf(1)), 32767},
		{float32(math.Inf(-1)), -32768},
		{nan32, 0},
	}
	for _, tc := range tests {
		if got := int16(uint16(cvtF32ToS16RN(tc.x))); got != tc.want {
			t.Errorf("cvt.rni.s16.f32(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestCvtIntegerWidening(t *testing.T) {
	for _, c := range cvtTests() {
		switch c.Name {
		case "cvt_u32_u16":
			v := c.Domain.Gen(0xFFFF)
			expected, ok := c.Verify(v, mustVal(t, c, 0xFFFF))
			if !ok {
				t.Errorf("zero extension of 0xFFFF: want %s", expected)
			}
		case "cvt_s32_s16":
			v := c.Domain.Gen(0x8000) // -32768 as s16
			expected, ok := c.Verify(v, mustVal(t, c, 0xFFFF8000))
			if !ok {
				t.Errorf("sign extension of 0x8000: want %s", expected)
			}
		case "cvt_f32_f16":
			v := c.Domain.Gen(0x3C00) // half-precision 1.0
			expected, ok := c.Verify(v, harness.F32Val(1))
			if !ok {
				t.Errorf("widening of f16 1.0: want %s", expected)
			}
			v = c.Domain.Gen(0x7E00) // half-precision NaN, any NaN payload accepted
			if _, ok := c.Verify(v, harness.F32Val(nan32)); !ok {
				t.Error("widening of f16 NaN rejected a NaN output")
			}
		case "cvt_f16_f32":
			v := c.Domain.Gen(0x3F800000) // f32 1.0
			expected, ok := c.Verify(v, mustVal(t, c, 0x3C00))
			if !ok {
				t.Errorf("narrowing of 1.0: want %s", expected)
			}
		case "cvt_sat_s16_s32":
			v := c.Domain.Gen(uint32(0x00010000)) // 65536, above the s16 range
			expected, ok := c.Verify(v, mustVal(t, c, 0x7FFF))
			if !ok {
				t.Errorf("saturation of 65536: want %s", expected)
			}
			v = c.Domain.Gen(uint32(0x80000000)) // most negative s32
			expected, ok = c.Verify(v, mustVal(t, c, 0x8000))
			if !ok {
				t.Errorf("saturation of -2^31: want %s", expected)
			}
		}
	}
}
