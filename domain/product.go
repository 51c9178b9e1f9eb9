package domain

// Product is what a catalog lookup resolves. Image holds raw (decoded) image
// bytes and is display-only.
type Product struct {
	ID    int64
	Title string
	Price float64
	Image []byte
}
