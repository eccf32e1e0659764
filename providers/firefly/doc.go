// Package firefly adapts the Firefly image and video generation APIs.
//
// Each deployment (v2, v3, v4, batch, video) is a registry entry named
// "firefly-<version>". Uploads larger than 2048px on either side are scaled
// down before sending; video jobs are polled through their absolute result href.
package firefly
