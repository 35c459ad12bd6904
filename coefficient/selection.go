package coefficient

// BothSidesEquivalent reports whether the materials on the two sides have the
// same maximum light speed, in which case neither side is preferred. The
// comparison is exact.
func BothSidesEquivalent(mat MaterialProperties, attr1, attr2 int) bool {
	return mat.GetLightSpeedMax(attr2) == mat.GetLightSpeedMax(attr1)
}

// PreferSide2 reports whether side 2 should be used: preferLowIndex is set and
// side 2 has the faster, lower refractive index material (typically vacuum).
func PreferSide2(mat MaterialProperties, attr1, attr2 int, preferLowIndex bool) bool {
	return preferLowIndex && mat.GetLightSpeedMax(attr2) > mat.GetLightSpeedMax(attr1)
}

type side uint8

const (
	side1 side = iota
	side2
	bothSides
)

// singleSide picks the side a SingleSide quantity is evaluated on. bothSides
// means evaluate each and keep the larger magnitude.
func singleSide(mat MaterialProperties, nbr *FaceNeighbors, preferLowIndex bool) side {
	if !nbr.HasElem2 {
		return side1
	}
	a1, a2 := nbr.Elem1.Attribute, nbr.Elem2.Attribute
	switch {
	case BothSidesEquivalent(mat, a1, a2):
		return bothSides
	case PreferSide2(mat, a1, a2, preferLowIndex):
		return side2
	default:
		return side1
	}
}

