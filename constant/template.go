package constant

// PageTemplate is the html/template rendered by the page host. The poster and the video
// are two stacked full-bleed layers; the video never loops and holds its last frame.
const PageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}</title>
<style>
  html, body { margin: 0; height: 100%; background: #000; }
  .backdrop { position: fixed; inset: 0; overflow: hidden; z-index: -1; }
  .backdrop img, .backdrop video {
    position: absolute; inset: 0; width: 100%; height: 100%; object-fit: cover;
    transition: opacity {{ .CrossfadeMs }}ms linear;
  }
  .backdrop img { opacity: 1; }
  .backdrop video { opacity: 0; }
  .backdrop.playing img { opacity: 0; }
  .backdrop.playing video { opacity: 1; }
</style>
</head>
<body>
<div class="backdrop" id="backdrop" data-state="idle">
  <img src="{{ .Poster }}" alt="" aria-hidden="true">
  <video muted playsinline autoplay preload="auto" disablepictureinpicture>
  {{- range .Candidates }}
    <source src="{{ .URI }}"{{ with .Type }} type="{{ . }}"{{ end }} data-tier="{{ .Tier }}">
  {{- end }}
  </video>
</div>
<script>
(function () {
  var root = document.getElementById("backdrop");
  var video = root.querySelector("video");
  var epsilon = {{ .FreezeEpsilonS }};
  var state = function (s) { root.dataset.state = s; };

  video.addEventListener("playing", function () {
    if (root.dataset.state !== "attempting_play") { return; }
    state("playing");
    root.classList.add("playing");
  });
  video.addEventListener("timeupdate", function () {
    if (root.dataset.state !== "playing" || !isFinite(video.duration)) { return; }
    if (video.duration - video.currentTime <= epsilon) {
      state("frozen");
      video.pause();
      video.currentTime = Math.max(0, video.currentTime - epsilon / 2);
    }
  });
  var fail = function () {
    if (root.dataset.state === "frozen") { return; }
    state("failed");
    root.classList.remove("playing");
  };
  video.addEventListener("error", function (e) {
    var sources = video.querySelectorAll("source");
    if (e.target.tagName === "SOURCE" && e.target !== sources[sources.length - 1]) { return; }
    fail();
  }, true);

  state("attempting_play");
  var attempt = video.play();
  if (attempt && attempt.catch) { attempt.catch(fail); }
})();
</script>
</body>
</html>
`
