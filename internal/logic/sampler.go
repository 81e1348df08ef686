package logic

// mapRange linearly rescales v from [inMin,inMax] to [outMin,outMax] with
// integer truncation. v is clamped to the source range first so out-of-range
// input can never wrap the output.
func mapRange(v, inMin, inMax, outMin, outMax int) int {
	if v < inMin {
		v = inMin
	}
	if v > inMax {
		v = inMax
	}
	return (v-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Normalize converts a raw control sample into the derived command
// quantities. The duty channel uses integer truncation; the speed channel
// uses exact division. Pure computation, safe to call at arbitrary frequency.
func Normalize(s Sample) Command {
	raw := s.Raw
	if raw < 0 {
		raw = 0
	}
	if raw > RawMax {
		raw = RawMax
	}

	return Command{
		Raw:          raw,
		TargetSpeed:  float64(raw) * SpeedScale / RawMax / 100,
		DriveDuty:    mapRange(raw, 0, RawMax, 0, DutyMax),
		ArmRequested: s.ButtonPressed,
	}
}
