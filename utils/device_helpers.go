package utils

import (
	"github.com/notargets/scatter/kernels/occa"
	"github.com/sirupsen/logrus"
)

// CreateDevice opens an OCCA device for the row-block kernels when wanted.
// It returns nil, meaning "use the Go kernels", when the device is not
// wanted or no backend can be opened.
func CreateDevice(wanted bool, log *logrus.Entry) *occa.Device {
	if !wanted {
		return nil
	}
	if !occa.Available() {
		log.Warn("device kernels requested but binary built without the occa tag")
		return nil
	}
	device, err := occa.CreateDevice()
	if err != nil {
		log.WithError(err).Warn("falling back to Go kernels")
		return nil
	}
	log.Infof("Created %s Device", device.Mode())
	return device
}
