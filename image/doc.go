// Package image loads and stores memory images.
//
// Raw binaries map byte for byte onto the array from address 0. Intel HEX
// files may place data anywhere below the memory size. Either way the
// result covers the whole array, undefined bytes reading as erased:
//
//	img, err := image.Parse("rom.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chip := sim.New()
//	_ = chip.Load(img.Data)
package image
