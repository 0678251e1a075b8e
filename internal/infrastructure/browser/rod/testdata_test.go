package rod

const (
	linksHTML = `<!DOCTYPE html>
<html>
<body>
	<a href="#one" id="first">First link</a>
	<button id="btn">Click Me</button>
	<a href="#hidden" style="display: none">Hidden link</a>
	<a href="#zero" style="display: inline-block; width: 0; height: 0; overflow: hidden">Zero</a>
	<div style="margin-top: 3000px"><a href="#below">Below the fold</a></div>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	coveredHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="target">Under</button>
	<div id="cover" style="position: fixed; top: 0; left: 0; width: 100%; height: 100%; background: white"></div>
	<script>
		document.getElementById('target').addEventListener('click', function() {
			document.title = 'clicked';
		});
	</script>
</body>
</html>`

	formHTML = `<!DOCTYPE html>
<html>
<body>
	<input id="name" type="text" value="old" />
	<select id="country">
		<option>France</option>
		<option>Germany</option>
		<option>Spain</option>
	</select>
</body>
</html>`

	frameHTML = `<!DOCTYPE html>
<html>
<body>
	<iframe title="inner" srcdoc="<button id='inside'>Inside</button>"></iframe>
</body>
</html>`
)
