/*
Package filesystem is how the pipeline touches asset files on disk.

Asset trees are frequently NFS mounts shared with authoring tools, which
makes ESTALE (stale file handle, errno 116) a routine failure rather than an
exotic one: the server reissues a handle during an export or sync while a
client still holds the old one. StatAsset and OpenAsset wrap os.Stat and
os.Open with a short exponential backoff over exactly that error; anything
else fails on the first attempt, so a genuinely missing or unreadable file
surfaces immediately.

The validation stage stats candidates through StatAsset; the hashing and
dimension stages read through OpenAsset:

	info, err := filesystem.StatAsset("/srv/assets/textures/brick.png")
	if err != nil {
	    return err
	}

	f, err := filesystem.OpenAsset("/srv/assets/textures/brick.png")
	if err != nil {
	    return err
	}
	defer f.Close()

The default policy retries 3 times, backing off 50ms to a 500ms cap. A
custom RetryPolicy carries its own bounds:

	p := filesystem.RetryPolicy{
	    MaxRetries:     5,
	    InitialBackoff: 100 * time.Millisecond,
	    MaxBackoff:     time.Second,
	}
	info, err := p.StatAsset(path)

Retry metrics are labeled with the volume a path lives on, resolved by
longest prefix against the mounts registered at startup (the asset root and
the data directory), so a flaky asset share is distinguishable from local
storage in dashboards.
*/
package filesystem
