// Package media prepares local media files for multimodal chat requests.
//
// Images are sent inline as base64 data URLs. Video is not sent directly:
// a [FrameExtractor] samples frames that are then sent as images, so video
// input requires image support from the model.
package media
