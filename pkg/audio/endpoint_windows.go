//go:build windows
// +build windows

package audio

import (
	"runtime"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// sFalse is the HRESULT CoInitializeEx returns when COM is already
// initialized on the thread.
const sFalse = 0x00000001

type request struct {
	set   bool
	level float32
	reply chan response
}

type response struct {
	level float32
	err   error
}

// Endpoint is the default render device's IAudioEndpointVolume. The COM
// objects live on one locked OS thread; calls are forwarded to it.
type Endpoint struct {
	log      logrus.FieldLogger
	requests chan request
	done     chan struct{}

	closeOnce sync.Once
}

// NewEndpoint activates the default speaker endpoint.
func NewEndpoint(log logrus.FieldLogger) (*Endpoint, error) {
	e := &Endpoint{
		log:      log,
		requests: make(chan request),
		done:     make(chan struct{}),
	}

	ready := make(chan error, 1)
	go e.serve(ready)
	if err := <-ready; err != nil {
		return nil, err
	}

	log.Debug("Audio endpoint activated")
	return e, nil
}

// Scalar returns the master volume in [0,1].
func (e *Endpoint) Scalar() (float32, error) {
	resp := e.call(request{})
	return resp.level, resp.err
}

// SetScalar sets the master volume in [0,1].
func (e *Endpoint) SetScalar(level float32) error {
	return e.call(request{set: true, level: level}).err
}

// Close releases the COM objects and ends the worker thread.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() {
		close(e.requests)
		<-e.done
	})
	return nil
}

func (e *Endpoint) call(req request) (resp response) {
	req.reply = make(chan response, 1)

	defer func() {
		// Send on a closed channel after Close
		if recover() != nil {
			resp = response{err: errors.New("audio endpoint closed")}
		}
	}()

	e.requests <- req
	return <-req.reply
}

func (e *Endpoint) serve(ready chan<- error) {
	defer close(e.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			ready <- errors.Wrap(err, "CoInitializeEx")
			return
		}
	}
	defer ole.CoUninitialize()

	aev, release, err := activate()
	if err != nil {
		ready <- err
		return
	}
	defer release()
	ready <- nil

	for req := range e.requests {
		var resp response
		if req.set {
			if err := aev.SetMasterVolumeLevelScalar(req.level, nil); err != nil {
				resp.err = errors.Wrap(err, "SetMasterVolumeLevelScalar")
			}
		} else {
			if err := aev.GetMasterVolumeLevelScalar(&resp.level); err != nil {
				resp.err = errors.Wrap(err, "GetMasterVolumeLevelScalar")
			}
		}
		req.reply <- resp
	}
	e.log.Debug("Audio endpoint released")
}

// activate walks enumerator -> default render device -> endpoint volume.
func activate() (*wca.IAudioEndpointVolume, func(), error) {
	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return nil, nil, errors.Wrap(err, "create device enumerator")
	}

	var mmd *wca.IMMDevice
	if err := mmde.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &mmd); err != nil {
		mmde.Release()
		return nil, nil, errors.Wrap(err, "get default audio endpoint")
	}

	var aev *wca.IAudioEndpointVolume
	if err := mmd.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &aev); err != nil {
		mmd.Release()
		mmde.Release()
		return nil, nil, errors.Wrap(err, "activate endpoint volume")
	}

	release := func() {
		aev.Release()
		mmd.Release()
		mmde.Release()
	}
	return aev, release, nil
}
