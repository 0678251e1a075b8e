package rod

const fingerprintScript = `(() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'vendor', { get: () => 'Google Inc.' });
	Object.defineProperty(navigator, 'platform', { get: () => 'Win32' });

	const patch = (proto) => {
		const getParameter = proto.getParameter;
		proto.getParameter = function (parameter) {
			if (parameter === 37445) {
				return 'Intel Inc.';
			}
			if (parameter === 37446) {
				return 'Intel Iris OpenGL Engine';
			}
			return getParameter.call(this, parameter);
		};
	};
	patch(WebGLRenderingContext.prototype);
	if (window.WebGL2RenderingContext) {
		patch(WebGL2RenderingContext.prototype);
	}
})();`

const jsClickScript = `() => this.click()`

const selectOptionScript = `(position) => {
	if (!this.options || position < 0 || position >= this.options.length) {
		throw new Error('option position ' + position + ' out of range');
	}
	this.selectedIndex = position;
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`

const optionLabelsScript = `() => Array.from(this.options || []).map(o => o.text)`
