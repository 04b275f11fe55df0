package session

// PasswordStrength scores a password from 0 to 5, one point each for: length
// of at least 8, a lowercase letter, an uppercase letter, a digit, and a
// character that is neither an ASCII letter nor a digit.
func PasswordStrength(pw string) int {
	var lower, upper, digit, other bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	score := 0
	for _, ok := range []bool{len(pw) >= 8, lower, upper, digit, other} {
		if ok {
			score++
		}
	}
	return score
}

// StrengthLabel is the text shown under the sign-up password field.
func StrengthLabel(score int) string {
	switch score {
	case 0, 1:
		return "Very weak"
	case 2:
		return "Weak"
	case 3:
		return "Medium"
	case 4:
		return "Strong"
	case 5:
		return "Very strong"
	default:
		return ""
	}
}
