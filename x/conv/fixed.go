package conv

// AppendFixed appends f with exactly prec decimals (prec <= 6), truncating
// rather than rounding. NaN and Inf are not special-cased; callers only
// pass calibrated sensor values.
func AppendFixed(dst []byte, f float64, prec int) []byte {
	if prec < 0 {
		prec = 0
	}
	if prec > 6 {
		prec = 6
	}
	if f < 0 {
		dst = append(dst, '-')
		f = -f
	}
	var buf [20]byte
	ip := uint64(f)
	dst = append(dst, Utoa(buf[:], ip)...)
	if prec == 0 {
		return dst
	}
	dst = append(dst, '.')
	frac := f - float64(ip)
	for i := 0; i < prec; i++ {
		frac *= 10
		d := int(frac)
		dst = append(dst, byte('0'+d))
		frac -= float64(d)
	}
	return dst
}
