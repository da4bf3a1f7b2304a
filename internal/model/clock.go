package model

import "time"

// KST is the zone every stored and rendered timestamp is expressed in.
var KST = time.FixedZone("KST", 9*60*60)

// Now 当前时间（KST）
func Now() time.Time {
	return time.Now().In(KST)
}
