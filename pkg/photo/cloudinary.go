package photo

import "strings"

const cloudinaryTransform = "/upload/f_auto,q_auto/"

// CORSRewrite returns the delivery URL used to fetch ref. Cloudinary URLs
// get automatic format and quality so the CDN serves a decodable image;
// other references are returned unchanged.
func CORSRewrite(ref string) string {
	if !strings.Contains(ref, "cloudinary.com") || strings.Contains(ref, cloudinaryTransform) {
		return ref
	}
	return strings.Replace(ref, "/upload/", cloudinaryTransform, 1)
}
